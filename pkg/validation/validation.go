// Package validation checks values typed into editors and configuration
// before they reach the simulation.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-physbox/pkg/entity"
)

// MaxNameLen bounds scene and material names
const MaxNameLen = 32

// Editor error messages, one per rejected field
const (
	msgRestitution     = "coefficient of restitution must be a number greater than or equal to zero"
	msgDensity         = "density must be a number greater than zero"
	msgStaticFriction  = "coefficient of static friction must be a number greater than or equal to zero"
	msgDynamicFriction = "coefficient of dynamic friction must be a number greater than or equal to zero"
	msgStiffness       = "stiffness must be a number greater than or equal to zero"
	msgSlackLength     = "slack length must be a number greater than or equal to zero"
)

// Regular expressions for input validation
var (
	// Allow alphanumeric, spaces, hyphens, underscores and dots
	validNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)
)

// MaterialForm is the raw text of a material editor
type MaterialForm struct {
	Name            string
	Restitution     string
	Density         string
	StaticFriction  string
	DynamicFriction string
}

// SpringRecord is the editable part of a spring
type SpringRecord struct {
	Stiffness   float64 `json:"stiffness"`
	SlackLength float64 `json:"slackLength"`
}

// SpringForm is the raw text of a spring editor
type SpringForm struct {
	Stiffness   string
	SlackLength string
}

// ValidateSceneName validates and trims a scene name
func ValidateSceneName(name string) (string, error) {
	return validateName("scene", name)
}

// ValidateMaterialName validates and trims a material name
func ValidateMaterialName(name string) (string, error) {
	return validateName("material", name)
}

func validateName(kind, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%s name cannot be empty", kind)
	}

	// Check length
	if len(name) > MaxNameLen {
		return "", fmt.Errorf("%s name too long: %d characters (max %d)", kind, len(name), MaxNameLen)
	}

	// Check UTF-8 validity
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%s name contains invalid UTF-8 characters", kind)
	}

	// Trim whitespace
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%s name cannot be only whitespace", kind)
	}

	// Check for control characters first
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%s name contains control characters", kind)
		}
	}

	// Check for allowed character set
	if !validNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%s name contains invalid characters (only alphanumeric, spaces, hyphens, underscores and dots allowed)", kind)
	}

	return trimmed, nil
}

// ValidateMaterial applies the editor rules: restitution and both
// friction coefficients non-negative, density strictly positive. Every
// violated rule is reported.
func ValidateMaterial(m entity.Material) error {
	var errs []error
	if !nonNegative(m.Restitution) {
		errs = append(errs, errors.New(msgRestitution))
	}
	if !positive(m.Density) {
		errs = append(errs, errors.New(msgDensity))
	}
	if !nonNegative(m.StaticFriction) {
		errs = append(errs, errors.New(msgStaticFriction))
	}
	if !nonNegative(m.DynamicFriction) {
		errs = append(errs, errors.New(msgDynamicFriction))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrInvalidMaterial, err)
	}
	return nil
}

// ParseMaterialForm converts editor text into a Material. Fields that do
// not parse as numbers fail with the same message as out-of-range ones.
func ParseMaterialForm(form MaterialForm) (entity.Material, error) {
	name, err := ValidateMaterialName(form.Name)
	if err != nil {
		return entity.Material{}, err
	}

	var errs []error
	parse := func(text, msg string) float64 {
		v, err := parseNumber(text)
		if err != nil {
			errs = append(errs, errors.New(msg))
			return math.NaN()
		}
		return v
	}

	m := entity.Material{
		Name:            name,
		Restitution:     parse(form.Restitution, msgRestitution),
		Density:         parse(form.Density, msgDensity),
		StaticFriction:  parse(form.StaticFriction, msgStaticFriction),
		DynamicFriction: parse(form.DynamicFriction, msgDynamicFriction),
	}
	if len(errs) > 0 {
		return entity.Material{}, fmt.Errorf("%w: %w", entity.ErrInvalidMaterial, errors.Join(errs...))
	}
	if err := ValidateMaterial(m); err != nil {
		return entity.Material{}, err
	}
	return m, nil
}

// ValidateSpringRecord requires non-negative finite stiffness and slack length
func ValidateSpringRecord(r SpringRecord) error {
	var errs []error
	if !nonNegative(r.Stiffness) {
		errs = append(errs, errors.New(msgStiffness))
	}
	if !nonNegative(r.SlackLength) {
		errs = append(errs, errors.New(msgSlackLength))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrInvalidSpring, err)
	}
	return nil
}

// ParseSpringForm converts editor text into a SpringRecord
func ParseSpringForm(form SpringForm) (SpringRecord, error) {
	stiffness, err1 := parseNumber(form.Stiffness)
	slack, err2 := parseNumber(form.SlackLength)

	var errs []error
	if err1 != nil {
		errs = append(errs, errors.New(msgStiffness))
	}
	if err2 != nil {
		errs = append(errs, errors.New(msgSlackLength))
	}
	if len(errs) > 0 {
		return SpringRecord{}, fmt.Errorf("%w: %w", entity.ErrInvalidSpring, errors.Join(errs...))
	}

	r := SpringRecord{Stiffness: stiffness, SlackLength: slack}
	if err := ValidateSpringRecord(r); err != nil {
		return SpringRecord{}, err
	}
	return r, nil
}

// ApplySpringRecord copies edited values onto a spring
func ApplySpringRecord(s *entity.Spring, r SpringRecord) error {
	if err := ValidateSpringRecord(r); err != nil {
		return err
	}
	s.Stiffness = r.Stiffness
	s.SlackLength = r.SlackLength
	return nil
}

func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(text), 64)
}

func nonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

func positive(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
