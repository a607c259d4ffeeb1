package wizard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// AttachmentYAML points at a file on disk attached to a saved draft.
type AttachmentYAML struct {
	Category string `yaml:"category"`
	Path     string `yaml:"path"`
	// Witness links a witness statement to the witness at this index.
	Witness *int `yaml:"witness,omitempty"`
}

// DraftFile is the YAML form of a saved draft.
type DraftFile struct {
	report.Draft `yaml:",inline"`
	Attachments  []AttachmentYAML `yaml:"attachments,omitempty"`
}

// LoadFromYAML reads a draft file. Relative attachment paths are resolved
// against the directory of the file.
func LoadFromYAML(path string) (*DraftFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}

	var df DraftFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse draft %s: %w", path, err)
	}

	d := report.NewDraft()
	for name, v := range df.Fields {
		if !report.IsField(name) {
			return nil, fmt.Errorf("parse draft %s: unknown field %q", path, name)
		}
		d.Fields[name] = v
	}
	for name, v := range df.Flags {
		if !report.IsFlag(name) {
			return nil, fmt.Errorf("parse draft %s: unknown flag %q", path, name)
		}
		d.Flags[name] = v
	}
	for _, w := range df.Witnesses {
		w.Statement = ""
		d.Witnesses = append(d.Witnesses, w)
	}
	df.Draft = d

	base := filepath.Dir(path)
	for i, a := range df.Attachments {
		if _, err := attachment.ParseCategory(a.Category); err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}
		if a.Path == "" {
			return nil, fmt.Errorf("attachment %d: path is required", i+1)
		}
		if a.Witness != nil && (*a.Witness < 0 || *a.Witness >= len(d.Witnesses)) {
			return nil, fmt.Errorf("attachment %d: no witness %d", i+1, *a.Witness)
		}
		if !filepath.IsAbs(a.Path) {
			df.Attachments[i].Path = filepath.Join(base, a.Path)
		}
	}
	return &df, nil
}

// SaveToYAML writes the draft file with owner-only permissions.
func SaveToYAML(path string, df *DraftFile) error {
	data, err := yaml.Marshal(df)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

// FromEngine captures the engine draft. Empty fields and unanswered questions are
// left out; attachments not backed by a file on disk cannot be saved and are
// skipped.
func FromEngine(e *engine.Engine) *DraftFile {
	d := e.Draft()
	out := report.Draft{
		Fields: make(map[string]string),
		Flags:  make(map[string]*bool),
	}
	for name, v := range d.Fields {
		if v != "" {
			out.Fields[name] = v
		}
	}
	for name, v := range d.Flags {
		if v != nil {
			out.Flags[name] = v
		}
	}

	statementOf := make(map[string]int)
	for i, w := range d.Witnesses {
		if w.Statement != "" {
			statementOf[w.Statement] = i
		}
		w.Statement = ""
		out.Witnesses = append(out.Witnesses, w)
	}

	df := &DraftFile{Draft: out}
	for _, c := range attachment.Categories {
		for _, a := range e.Attachments(c) {
			path, ok := attachment.LocalPath(a.File)
			if !ok {
				continue
			}
			entry := AttachmentYAML{Category: c.String(), Path: path}
			if i, ok := statementOf[a.ID]; ok {
				entry.Witness = &i
			}
			df.Attachments = append(df.Attachments, entry)
		}
	}
	return df
}

// Apply loads the draft into e and uploads every attachment.
func (df *DraftFile) Apply(e *engine.Engine) error {
	e.LoadDraft(df.Draft)
	for _, a := range df.Attachments {
		c, err := attachment.ParseCategory(a.Category)
		if err != nil {
			return err
		}
		f, err := attachment.OpenLocal(a.Path)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", a.Path, err)
		}
		added, err := e.Upload(c, f)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", a.Path, err)
		}
		if a.Witness != nil && c == attachment.CategoryWitnessStatement {
			if err := e.AttachWitnessStatement(*a.Witness, added[0].ID); err != nil {
				return fmt.Errorf("attachment %s: %w", a.Path, err)
			}
		}
	}
	return nil
}
