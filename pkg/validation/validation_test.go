package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

func TestValidateSceneName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid simple name",
			input:   "springs",
			want:    "springs",
			wantErr: false,
		},
		{
			name:    "valid name with hyphen",
			input:   "box-stack",
			want:    "box-stack",
			wantErr: false,
		},
		{
			name:    "name with leading/trailing spaces",
			input:   "  pendulum  ",
			want:    "pendulum",
			wantErr: false,
		},
		{
			name:        "empty name",
			input:       "",
			want:        "",
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name:        "only whitespace",
			input:       "   ",
			want:        "",
			wantErr:     true,
			errContains: "cannot be only whitespace",
		},
		{
			name:        "too long name",
			input:       strings.Repeat("a", MaxNameLen+1),
			want:        "",
			wantErr:     true,
			errContains: "too long",
		},
		{
			name:        "name with special characters",
			input:       "stack@#$",
			want:        "",
			wantErr:     true,
			errContains: "invalid characters",
		},
		{
			name:        "name with control character",
			input:       "box\x00stack",
			want:        "",
			wantErr:     true,
			errContains: "control characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateSceneName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateSceneName() error = %v, should contain %q", err, tt.errContains)
			}
			if got != tt.want {
				t.Errorf("ValidateSceneName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateMaterial(t *testing.T) {
	tests := []struct {
		name          string
		material      entity.Material
		wantErr       bool
		errContains   []string
		errNotContain string
	}{
		{
			name:     "wood",
			material: entity.Wood,
		},
		{
			name:     "frictionless elastic",
			material: entity.Material{Restitution: 1, Density: 1},
		},
		{
			name:        "zero density rejected",
			material:    entity.Material{Density: 0},
			wantErr:     true,
			errContains: []string{"density"},
		},
		{
			name:          "negative restitution only",
			material:      entity.Material{Restitution: -0.1, Density: 1},
			wantErr:       true,
			errContains:   []string{"restitution"},
			errNotContain: "density",
		},
		{
			name:        "every field wrong",
			material:    entity.Material{Restitution: -1, Density: -1, StaticFriction: -1, DynamicFriction: -1},
			wantErr:     true,
			errContains: []string{"restitution", "density", "static friction", "dynamic friction"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaterial(tt.material)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMaterial() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, entity.ErrInvalidMaterial) {
				t.Errorf("ValidateMaterial() error = %v, should wrap ErrInvalidMaterial", err)
			}
			for _, want := range tt.errContains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("ValidateMaterial() error = %v, should contain %q", err, want)
				}
			}
			if tt.errNotContain != "" && strings.Contains(err.Error(), tt.errNotContain) {
				t.Errorf("ValidateMaterial() error = %v, should not contain %q", err, tt.errNotContain)
			}
		})
	}
}

func TestParseMaterialForm(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		m, err := ParseMaterialForm(MaterialForm{
			Name:            " rubber ",
			Restitution:     "0.8",
			Density:         " 1.1",
			StaticFriction:  "1",
			DynamicFriction: "0.8",
		})
		if err != nil {
			t.Fatalf("ParseMaterialForm() unexpected error: %v", err)
		}
		want := entity.Material{Name: "rubber", Restitution: 0.8, Density: 1.1, StaticFriction: 1, DynamicFriction: 0.8}
		if m != want {
			t.Errorf("ParseMaterialForm() = %+v, want %+v", m, want)
		}
	})

	t.Run("non numeric fields", func(t *testing.T) {
		_, err := ParseMaterialForm(MaterialForm{
			Name:            "junk",
			Restitution:     "bouncy",
			Density:         "1",
			StaticFriction:  "",
			DynamicFriction: "0.1",
		})
		if !errors.Is(err, entity.ErrInvalidMaterial) {
			t.Fatalf("ParseMaterialForm() error = %v, want ErrInvalidMaterial", err)
		}
		if !strings.Contains(err.Error(), "restitution") || !strings.Contains(err.Error(), "static friction") {
			t.Errorf("ParseMaterialForm() error = %v, should name both bad fields", err)
		}
	})

	t.Run("bad name", func(t *testing.T) {
		if _, err := ParseMaterialForm(MaterialForm{Name: ""}); err == nil {
			t.Error("ParseMaterialForm() expected error for empty name")
		}
	})
}

func TestValidateSpringRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  SpringRecord
		wantErr bool
	}{
		{"valid", SpringRecord{Stiffness: 1, SlackLength: 50}, false},
		{"zero values", SpringRecord{}, false},
		{"negative stiffness", SpringRecord{Stiffness: -1}, true},
		{"negative slack", SpringRecord{Stiffness: 1, SlackLength: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpringRecord(tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpringRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, entity.ErrInvalidSpring) {
				t.Errorf("ValidateSpringRecord() error = %v, should wrap ErrInvalidSpring", err)
			}
		})
	}
}

func TestParseSpringForm(t *testing.T) {
	r, err := ParseSpringForm(SpringForm{Stiffness: "0.75", SlackLength: "10"})
	if err != nil {
		t.Fatalf("ParseSpringForm() unexpected error: %v", err)
	}
	if r != (SpringRecord{Stiffness: 0.75, SlackLength: 10}) {
		t.Errorf("ParseSpringForm() = %+v", r)
	}

	if _, err := ParseSpringForm(SpringForm{Stiffness: "stiff", SlackLength: "-1"}); !errors.Is(err, entity.ErrInvalidSpring) {
		t.Errorf("ParseSpringForm() error = %v, want ErrInvalidSpring", err)
	}
}

func TestApplySpringRecord(t *testing.T) {
	a, _ := entity.NewBody(physics.Vector2D{}, 0, 1, 1)
	b, _ := entity.NewBody(physics.Vector2D{X: 1}, 0, 1, 1)
	s, err := entity.NewSpring(1, 0, a, b)
	if err != nil {
		t.Fatalf("NewSpring() unexpected error: %v", err)
	}

	if err := ApplySpringRecord(s, SpringRecord{Stiffness: 3, SlackLength: 2}); err != nil {
		t.Fatalf("ApplySpringRecord() unexpected error: %v", err)
	}
	if s.Stiffness != 3 || s.SlackLength != 2 {
		t.Errorf("spring = %v/%v, want 3/2", s.Stiffness, s.SlackLength)
	}

	if err := ApplySpringRecord(s, SpringRecord{Stiffness: -3}); err == nil {
		t.Error("ApplySpringRecord() expected error for negative stiffness")
	}
	if s.Stiffness != 3 {
		t.Error("ApplySpringRecord() modified the spring on error")
	}
}
