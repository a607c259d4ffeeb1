package attachment

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_UploadKeepsOrderAndDuplicates(t *testing.T) {
	s := NewStore(CategoryMedical, 0)

	added, err := s.Upload(
		NewBytesFile("skan.pdf", []byte("a")),
		NewBytesFile("skan.pdf", []byte("bb")),
		nil,
		NewBytesFile("rtg.dcm", []byte("ccc")),
	)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(added) != 3 || s.Len() != 3 {
		t.Fatalf("added %d, Len() = %d; want 3", len(added), s.Len())
	}

	list := s.List()
	names := []string{list[0].Name, list[1].Name, list[2].Name}
	if names[0] != "skan.pdf" || names[1] != "skan.pdf" || names[2] != "rtg.dcm" {
		t.Errorf("List() names = %v", names)
	}
	if list[0].ID == list[1].ID {
		t.Error("duplicate names should still get distinct ids")
	}
	if list[1].Size != 2 || list[1].Category != CategoryMedical {
		t.Errorf("attachment = %+v", list[1])
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(CategoryAdditional, 0)
	added, _ := s.Upload(NewBytesFile("a.txt", nil), NewBytesFile("b.txt", nil), NewBytesFile("c.txt", nil))

	if !s.Remove(added[1].ID) {
		t.Fatal("Remove of existing id returned false")
	}
	if s.Remove(added[1].ID) {
		t.Error("second Remove of the same id returned true")
	}
	if s.Remove("unknown") {
		t.Error("Remove of unknown id returned true")
	}

	list := s.List()
	if len(list) != 2 || list[0].Name != "a.txt" || list[1].Name != "c.txt" {
		t.Errorf("List() after remove = %+v", list)
	}
}

func TestStore_ListIsACopy(t *testing.T) {
	s := NewStore(CategoryMedical, 0)
	_, _ = s.Upload(NewBytesFile("a.txt", nil))

	list := s.List()
	list[0].Name = "changed"
	if s.List()[0].Name != "a.txt" {
		t.Error("List() exposes internal storage")
	}
}

func TestStore_MaxSize(t *testing.T) {
	s := NewStore(CategoryMedical, 4)

	added, err := s.Upload(NewBytesFile("small", []byte("1234")), NewBytesFile("big", []byte("12345")))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Upload error = %v, want ErrTooLarge", err)
	}
	if len(added) != 1 || added[0].Name != "small" {
		t.Errorf("added = %+v, want only small", added)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(CategoryLegalNotice, 0)
	_, _ = s.Upload(NewBytesFile("a", nil), NewBytesFile("b", nil))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d", s.Len())
	}
}

func TestOpenLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "karta.txt")
	if err := os.WriteFile(path, []byte("wypis ze szpitala"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	if f.Name() != "karta.txt" || f.Size() != 17 {
		t.Errorf("Name() = %q, Size() = %d", f.Name(), f.Size())
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, _ := io.ReadAll(rc)
	if string(data) != "wypis ze szpitala" {
		t.Errorf("content = %q", data)
	}
	if got, ok := LocalPath(f); !ok || got != path {
		t.Errorf("LocalPath() = %q, %v", got, ok)
	}
	if _, ok := LocalPath(NewBytesFile("a.txt", nil)); ok {
		t.Error("LocalPath of an in-memory file should report false")
	}

	if _, err := OpenLocal(dir); err == nil {
		t.Error("OpenLocal(directory) should return error")
	}
	if _, err := OpenLocal(filepath.Join(dir, "missing")); err == nil {
		t.Error("OpenLocal(missing) should return error")
	}
}

func TestSet(t *testing.T) {
	set := NewSet(0)
	med, _ := set.Store(CategoryMedical).Upload(NewBytesFile("rtg.png", []byte("x")))
	_, _ = set.Store(CategoryWitnessStatement).Upload(NewBytesFile("oswiadczenie.pdf", []byte("yy")))

	a, ok := set.Find(med[0].ID)
	if !ok || a.Name != "rtg.png" {
		t.Errorf("Find = %+v, %v", a, ok)
	}

	refs := set.Refs()
	if len(refs) != 2 {
		t.Fatalf("Refs() = %d entries, want 2", len(refs))
	}
	if refs[0].Category != "medical" || refs[1].Category != "witness-statement" {
		t.Errorf("Refs() categories = %s, %s", refs[0].Category, refs[1].Category)
	}

	set.Clear()
	for _, c := range Categories {
		if set.Store(c).Len() != 0 {
			t.Errorf("%s not cleared", c)
		}
	}
}

func TestSet_Lookup(t *testing.T) {
	set := NewSet(0)
	for _, c := range Categories {
		if st, ok := set.Lookup(c); !ok || st == nil {
			t.Errorf("Lookup(%s) = %v, %v", c, st, ok)
		}
	}
	if st, ok := set.Lookup(Category(9)); ok || st != nil {
		t.Errorf("Lookup(9) = %v, %v; want nil, false", st, ok)
	}
}
