package session

import (
	"encoding/json"
	"fmt"
)

// Progress is the single narrative progress value for a session.
// Transitions are strictly monotonic: marker-lost events hide overlays
// but never move progress backwards.
type Progress int

const (
	NotStarted Progress = iota
	Chapter1Active
	Chapter2Active
	Chapter3Active
	Completed
)

var progressNames = map[Progress]string{
	NotStarted:     "not_started",
	Chapter1Active: "chapter_1_active",
	Chapter2Active: "chapter_2_active",
	Chapter3Active: "chapter_3_active",
	Completed:      "completed",
}

func (p Progress) String() string {
	if name, ok := progressNames[p]; ok {
		return name
	}
	return fmt.Sprintf("progress(%d)", int(p))
}

// ChapterProgress returns the progress value that marks chapter i
// (zero-based) as unlocked.
func ChapterProgress(i int) Progress {
	return Chapter1Active + Progress(i)
}

// MarshalJSON serializes progress as its snake_case name.
func (p Progress) MarshalJSON() ([]byte, error) {
	name, ok := progressNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown progress value %d", int(p))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a snake_case progress name.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for v, n := range progressNames {
		if n == name {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown progress name %q", name)
}
