package models

import (
	"errors"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	setup := InterviewSetup{QuestionCount: 5}
	setup.Normalize()

	if setup.InterviewType != TypeMixed {
		t.Errorf("interview type = %q, want Mixed", setup.InterviewType)
	}
	if setup.Difficulty != DifficultyModerate {
		t.Errorf("difficulty = %q, want Moderate", setup.Difficulty)
	}
	if setup.AnswerTimeSeconds != DefaultAnswerTimeSeconds {
		t.Errorf("answer time = %d, want %d", setup.AnswerTimeSeconds, DefaultAnswerTimeSeconds)
	}
}

func TestNormalizeRealisticMode(t *testing.T) {
	setup := InterviewSetup{
		QuestionCount:   5,
		PrepTimeSeconds: 120,
		RealisticMode:   true,
	}
	setup.Normalize()

	if setup.PrepTimeSeconds != RealisticPrepTimeSeconds {
		t.Errorf("prep time = %d, want %d", setup.PrepTimeSeconds, RealisticPrepTimeSeconds)
	}
	if !setup.VoiceEnabled || !setup.TTSEnabled {
		t.Error("realistic mode must force voice and TTS on")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		setup   InterviewSetup
		wantErr error
	}{
		{
			name:  "valid",
			setup: InterviewSetup{QuestionCount: 5, AnswerTimeSeconds: 180, InterviewType: TypeTechnical, Difficulty: DifficultyEasy},
		},
		{
			name:    "zero questions",
			setup:   InterviewSetup{QuestionCount: 0, AnswerTimeSeconds: 180, InterviewType: TypeMixed, Difficulty: DifficultyModerate},
			wantErr: ErrInvalidQuestionCount,
		},
		{
			name:    "too many questions",
			setup:   InterviewSetup{QuestionCount: MaxQuestionCount + 1, AnswerTimeSeconds: 180, InterviewType: TypeMixed, Difficulty: DifficultyModerate},
			wantErr: ErrInvalidQuestionCount,
		},
		{
			name:    "zero answer time",
			setup:   InterviewSetup{QuestionCount: 5, InterviewType: TypeMixed, Difficulty: DifficultyModerate},
			wantErr: ErrInvalidAnswerTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnknownEnums(t *testing.T) {
	setup := InterviewSetup{QuestionCount: 5, AnswerTimeSeconds: 180, InterviewType: "Casual", Difficulty: DifficultyModerate}
	if err := setup.Validate(); err == nil {
		t.Error("expected an error for an unknown interview type")
	}

	setup = InterviewSetup{QuestionCount: 5, AnswerTimeSeconds: 180, InterviewType: TypeMixed, Difficulty: "Impossible"}
	if err := setup.Validate(); err == nil {
		t.Error("expected an error for an unknown difficulty")
	}
}
