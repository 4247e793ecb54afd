package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/markers"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <experience.json> [markers-dir]\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &ExperienceValidator{}

	exp, err := validator.validateFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	// Optionally check that every chapter marker has a complete
	// .iset/.fset/.fset3 triplet on disk.
	if len(os.Args) > 2 {
		if err := validator.validateMarkers(exp, os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Experience file is valid!")
}

type ExperienceValidator struct {
	errors []string
}

func (v *ExperienceValidator) validateFile(filename string) (*experience.Experience, error) {
	fmt.Printf("Validating %s...\n", filename)

	// Validate filename format
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return nil, fmt.Errorf("experience file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidExperienceFilename(nameWithoutExt) {
		return nil, fmt.Errorf("experience filename '%s' must be lowercase snake_case (e.g., midnight_relic.json, not Midnight-Relic.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return nil, fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var exp experience.Experience
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&exp); err != nil {
		return nil, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if err := exp.Validate(); err != nil {
		v.addError(err.Error())
	}

	v.validateStructure(&exp)

	if len(v.errors) > 0 {
		return nil, fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return &exp, nil
}

// validateStructure adds lint-level checks on top of Experience.Validate:
// naming conventions and authoring mistakes that load fine but make the
// experience confusing to play.
func (v *ExperienceValidator) validateStructure(exp *experience.Experience) {
	for _, ch := range exp.Chapters {
		v.validateIDFormat("chapter ID", ch.ID)
		v.validateIDFormat("chapter marker", ch.Marker)
		if ch.OverlayText == "" {
			v.addError(fmt.Sprintf("chapter '%s' has no overlay_text", ch.ID))
		}
	}

	for id := range exp.Elements {
		v.validateIDFormat("element ID", id)
	}
	for id := range exp.Objects {
		v.validateIDFormat("object ID", id)
	}

	if len(exp.RevelationObjects()) == 0 {
		v.addError("experience has no revelation objects, so it can never complete")
	}
	if exp.CompletionText == "" {
		v.addError("experience has no completion_text")
	}
}

// validateMarkers checks that each chapter marker has a complete marker
// set in the given directory.
func (v *ExperienceValidator) validateMarkers(exp *experience.Experience, dir string) error {
	fmt.Printf("Checking marker sets in %s...\n", dir)

	sets, err := markers.Scan(dir)
	if err != nil {
		return fmt.Errorf("failed to scan marker directory: %w", err)
	}

	v.errors = nil
	for _, ch := range exp.Chapters {
		set, ok := markers.Find(sets, ch.Marker)
		if !ok {
			v.addError(fmt.Sprintf("marker '%s' (chapter '%s') has no files in %s", ch.Marker, ch.ID, dir))
			continue
		}
		if !set.Complete() {
			v.addError(fmt.Sprintf("marker '%s' is missing: %s", ch.Marker, strings.Join(set.Missing(), ", ")))
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("marker errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *ExperienceValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ExperienceValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidExperienceFilename(name string) bool {
	// Allow 'x.' prefix for experimental experiences
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
