package services

import "testing"

func TestComputeLevelStaircase(t *testing.T) {
	tests := []struct {
		name       string
		experience int
		wantLevel  int
		wantEarned int
		wantNext   int
	}{
		{"zero XP", 0, 1, 0, 100},
		{"just below first threshold", 99, 1, 99, 100},
		{"exactly first threshold", 100, 2, 0, 115},
		{"mid second band", 150, 2, 50, 115},
		{"just below second threshold", 214, 2, 114, 115},
		{"exactly second threshold", 215, 3, 0, 130},
		{"deep into the bands", 1000, 7, 175, 190},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, earned, next := ComputeLevel(tt.experience)
			if level != tt.wantLevel {
				t.Errorf("level = %d, want %d", level, tt.wantLevel)
			}
			if earned != tt.wantEarned {
				t.Errorf("earned = %d, want %d", earned, tt.wantEarned)
			}
			if next != tt.wantNext {
				t.Errorf("next = %d, want %d", next, tt.wantNext)
			}
		})
	}
}

func TestComputeLevelNeverNegative(t *testing.T) {
	level, earned, next := ComputeLevel(-5)
	if level != 1 || earned != 0 || next != 100 {
		t.Errorf("got (%d, %d, %d), want (1, 0, 100)", level, earned, next)
	}
}
