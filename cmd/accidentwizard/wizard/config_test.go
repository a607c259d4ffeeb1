package wizard

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	mem, err := docservice.NewMemory(docservice.WithDownloadDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	e := engine.New(mem)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFromYAML_ValidDraft(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "karta.pdf", "karta informacyjna")
	path := writeFile(t, dir, "draft.yaml", `
fields:
  pesel: "90010112345"
  imie: Anna
  nazwisko: Nowak
flags:
  czy_udzielona_pomoc: true
witnesses:
  - imie: Jan
    nazwisko: Kowalski
    statement: stale-id
attachments:
  - category: medical
    path: karta.pdf
`)

	df, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if df.Get(report.FieldFirstName) != "Anna" {
		t.Errorf("imie = %q, want Anna", df.Get(report.FieldFirstName))
	}
	if v, ok := df.Fields[report.FieldStreet]; !ok || v != "" {
		t.Errorf("ulica should be present and empty, got %q (present=%v)", v, ok)
	}
	if b := df.Flag(report.FlagAidGiven); b == nil || !*b {
		t.Errorf("czy_udzielona_pomoc = %v, want true", b)
	}
	if _, ok := df.Flags[report.FlagMachineInvolved]; !ok {
		t.Error("unanswered flags should be present")
	}
	if len(df.Witnesses) != 1 || df.Witnesses[0].Statement != "" {
		t.Errorf("witnesses = %+v, want one without a statement id", df.Witnesses)
	}
	if len(df.Attachments) != 1 || df.Attachments[0].Path != filepath.Join(dir, "karta.pdf") {
		t.Errorf("attachments = %+v", df.Attachments)
	}
}

func TestLoadFromYAML_NonExistentFile(t *testing.T) {
	if _, err := LoadFromYAML("/nonexistent/path/draft.yaml"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestLoadFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid yaml", "fields: [", "parse draft"},
		{"unknown key", "pola: {}", "parse draft"},
		{"unknown field", "fields:\n  wzrost: \"180\"", `unknown field "wzrost"`},
		{"unknown flag", "flags:\n  czy_padalo: true", `unknown flag "czy_padalo"`},
		{"bad category", "attachments:\n  - category: photos\n    path: a.jpg", "attachment 1"},
		{"missing path", "attachments:\n  - category: medical", "path is required"},
		{"witness out of range", "attachments:\n  - category: witness-statement\n    path: a.pdf\n    witness: 0", "no witness 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "draft.yaml", tt.yaml)
			_, err := LoadFromYAML(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromYAML() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromYAML_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "draft.yaml", "")
	df, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	if diff := cmp.Diff(report.NewDraft(), df.Draft); diff != "" {
		t.Errorf("empty file should give an empty draft (-want +got):\n%s", diff)
	}
}

func TestRoundtrip_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	medical := writeFile(t, dir, "karta.pdf", "karta informacyjna")
	statement := writeFile(t, dir, "relacja.txt", "widziałem upadek")

	e := newEngine(t)
	draft := report.SampleDraft(2, rand.New(rand.NewPCG(1, 2)))
	e.LoadDraft(draft)

	f, err := attachment.OpenLocal(medical)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Upload(attachment.CategoryMedical, f); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	f, err = attachment.OpenLocal(statement)
	if err != nil {
		t.Fatal(err)
	}
	added, err := e.Upload(attachment.CategoryWitnessStatement, f)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := e.AttachWitnessStatement(1, added[0].ID); err != nil {
		t.Fatalf("AttachWitnessStatement: %v", err)
	}

	path := filepath.Join(dir, "saved", "draft.yaml")
	if err := SaveToYAML(path, FromEngine(e)); err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("draft file mode = %o, want 600", perm)
	}

	df, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	restored := newEngine(t)
	if err := df.Apply(restored); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	ignoreStatement := cmpopts.IgnoreFields(report.Witness{}, "Statement")
	if diff := cmp.Diff(draft, restored.Draft(), ignoreStatement, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}

	if got := restored.Attachments(attachment.CategoryMedical); len(got) != 1 || got[0].Name != "karta.pdf" {
		t.Errorf("medical attachments = %+v", got)
	}
	stmts := restored.Attachments(attachment.CategoryWitnessStatement)
	if len(stmts) != 1 {
		t.Fatalf("witness statements = %d, want 1", len(stmts))
	}
	ws := restored.Witnesses()
	if ws[0].Statement != "" || ws[1].Statement != stmts[0].ID {
		t.Errorf("statements = %q, %q; want only the second witness linked to %q", ws[0].Statement, ws[1].Statement, stmts[0].ID)
	}
}

func TestFromEngine_LeavesOutEmptyValuesAndMemoryFiles(t *testing.T) {
	e := newEngine(t)
	if err := e.HandleInput(report.FieldFirstName, "Anna"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Upload(attachment.CategoryAdditional, attachment.NewBytesFile("notatka.txt", []byte("x"))); err != nil {
		t.Fatal(err)
	}

	df := FromEngine(e)
	if diff := cmp.Diff(map[string]string{report.FieldFirstName: "Anna"}, df.Fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if len(df.Flags) != 0 {
		t.Errorf("flags = %v, want none", df.Flags)
	}
	if len(df.Attachments) != 0 {
		t.Errorf("attachments = %+v, want none", df.Attachments)
	}
}

func TestApply_MissingAttachment(t *testing.T) {
	df := &DraftFile{
		Draft:       report.NewDraft(),
		Attachments: []AttachmentYAML{{Category: "medical", Path: filepath.Join(t.TempDir(), "brak.pdf")}},
	}
	if err := df.Apply(newEngine(t)); err == nil || !strings.Contains(err.Error(), "brak.pdf") {
		t.Errorf("Apply() error = %v, want it to name the missing file", err)
	}
}
