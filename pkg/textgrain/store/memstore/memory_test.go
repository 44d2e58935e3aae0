package memstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
	"github.com/textgrain/textgrain/pkg/textgrain/wordvec"
)

func sampleModel() wordvec.Model {
	s := dataset.NewSchema("reviews", []dataset.Attribute{
		{Name: "text", Type: dataset.String},
		{Name: "class", Type: dataset.Nominal, Labels: []string{"neg", "pos"}},
	})
	s.LabelIndex = 1
	return wordvec.Model{
		WordsToKeep: 100,
		Words:       []string{"bird", "cat", "dog"},
		Input:       s,
	}
}

func TestSaveAndGetModel(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	id, err := st.SaveModel(ctx, sampleModel())
	if err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	if id == "" {
		t.Fatal("SaveModel returned empty id")
	}

	rec, err := st.GetModel(ctx, id)
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if rec.ID != id {
		t.Errorf("record id = %q, want %q", rec.ID, id)
	}
	if !reflect.DeepEqual(rec.Model.Words, []string{"bird", "cat", "dog"}) {
		t.Errorf("words = %v", rec.Model.Words)
	}
	if rec.Model.Input.LabelIndex != 1 {
		t.Errorf("label index = %d, want 1", rec.Model.Input.LabelIndex)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetModelNotFound(t *testing.T) {
	st := New()
	defer st.Close()

	if _, err := st.GetModel(context.Background(), "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetModel = %v, want ErrNotFound", err)
	}
}

func TestStoredModelIsIsolated(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	m := sampleModel()
	id, err := st.SaveModel(ctx, m)
	if err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	// Mutating the caller's copy must not reach the stored model.
	m.Words[0] = "tampered"
	m.Input.Attrs[0].Name = "tampered"

	rec, err := st.GetModel(ctx, id)
	if err != nil {
		t.Fatalf("GetModel: %v", err)
	}
	if rec.Model.Words[0] != "bird" {
		t.Error("stored words share memory with caller")
	}
	if rec.Model.Input.Attrs[0].Name != "text" {
		t.Error("stored schema shares memory with caller")
	}

	// Same in the other direction.
	rec.Model.Words[1] = "tampered"
	again, _ := st.GetModel(ctx, id)
	if again.Model.Words[1] != "cat" {
		t.Error("retrieved model shares memory with store")
	}
}

func TestListModelsNewestFirst(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	first, err := st.SaveModel(ctx, sampleModel())
	if err != nil {
		t.Fatal(err)
	}
	second, err := st.SaveModel(ctx, sampleModel())
	if err != nil {
		t.Fatal(err)
	}

	infos, err := st.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("listed %d models, want 2", len(infos))
	}
	if infos[0].ID != second || infos[1].ID != first {
		t.Errorf("order = [%s %s], want newest first", infos[0].ID, infos[1].ID)
	}
	if infos[0].DictSize != 3 {
		t.Errorf("DictSize = %d, want 3", infos[0].DictSize)
	}
	if infos[0].Relation != "reviews" {
		t.Errorf("Relation = %q, want reviews", infos[0].Relation)
	}
}

func TestDeleteModel(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	id, err := st.SaveModel(ctx, sampleModel())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteModel(ctx, id); err != nil {
		t.Fatalf("DeleteModel: %v", err)
	}
	if _, err := st.GetModel(ctx, id); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("GetModel after delete = %v, want ErrNotFound", err)
	}
	if err := st.DeleteModel(ctx, id); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestRoundTripThroughFilter(t *testing.T) {
	st := New()
	defer st.Close()
	ctx := context.Background()

	id, err := st.SaveModel(ctx, sampleModel())
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.GetModel(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	f, err := wordvec.NewFromModel(rec.Model)
	if err != nil {
		t.Fatalf("NewFromModel: %v", err)
	}
	if _, err := f.Accept(dataset.NewInstance(dataset.Str("cat and dog"), dataset.Ord(1))); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	vec, ok := f.Pop()
	if !ok {
		t.Fatal("no output from restored filter")
	}
	if vec.Get(1) != 1.0 || vec.Get(2) != 1.0 {
		t.Errorf("restored filter missed dictionary words: %+v", vec)
	}
}
