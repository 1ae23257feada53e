package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"corpusprep/internal/ledger"
	"corpusprep/internal/manifest"
	"corpusprep/internal/services"
	"corpusprep/internal/testsupport"
)

func TestStateLifecycle(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	ctx := context.Background()
	key := ledger.Key{Category: "8.단위", Split: "training"}

	if err := store.SetState(ctx, key, ledger.StateExtracted); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := store.RecordDiscovery(ctx, key, 10, 2); err != nil {
		t.Fatalf("RecordDiscovery: %v", err)
	}
	ds, err := store.Dataset(ctx, key)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if ds.State != ledger.StateDiscovered || ds.LabelCount != 10 || ds.MissingAudio != 2 {
		t.Fatalf("dataset = %+v", ds)
	}
	if ds.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be set")
	}

	if err := store.MarkFailed(ctx, key, errors.New("disk full")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	ds, err = store.Dataset(ctx, key)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if ds.State != ledger.StateFailed || ds.LastError != "disk full" {
		t.Fatalf("dataset after failure = %+v", ds)
	}
	if ds.LabelCount != 10 {
		t.Fatalf("failure reset counts: %+v", ds)
	}

	if err := store.SetState(ctx, key, ledger.StateExtracted); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	ds, _ = store.Dataset(ctx, key)
	if ds.LastError != "" {
		t.Fatalf("expected last_error cleared, got %q", ds.LastError)
	}
}

func TestSetStateRejectsUnknown(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	err := store.SetState(context.Background(), ledger.Key{Category: "x", Split: "training"}, ledger.State("bogus"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDatasetNotFound(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	_, err := store.Dataset(context.Background(), ledger.Key{Category: "none", Split: "training"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReplaceRecordsAndQuery(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	ctx := context.Background()
	bank := ledger.Key{Category: "5.금융-은행", Split: "training"}
	unit := ledger.Key{Category: "8.단위", Split: "training"}
	valUnit := ledger.Key{Category: "8.단위", Split: "validation"}

	first := []manifest.Record{
		{AudioFilepath: "/p/bank/1.wav", Duration: 1.5, Text: "일"},
		{AudioFilepath: "/p/bank/2.wav", Duration: 2, Text: "이"},
	}
	if err := store.ReplaceRecords(ctx, bank, []manifest.Record{{AudioFilepath: "/stale.wav"}}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if err := store.ReplaceRecords(ctx, bank, first); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if err := store.ReplaceRecords(ctx, unit, []manifest.Record{{AudioFilepath: "/p/unit/1.wav", Duration: 3, Text: "삼"}}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if err := store.ReplaceRecords(ctx, valUnit, []manifest.Record{{AudioFilepath: "/v/unit/1.wav", Duration: 4, Text: "사"}}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}

	all, err := store.Records(ctx, "training", nil)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	want := append(append([]manifest.Record(nil), first...), manifest.Record{AudioFilepath: "/p/unit/1.wav", Duration: 3, Text: "삼"})
	if len(all) != len(want) {
		t.Fatalf("records = %+v", all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("records[%d] = %+v, want %+v", i, all[i], want[i])
		}
	}

	excluded, err := store.Records(ctx, "training", []string{"8.단위"})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(excluded) != 2 || excluded[0] != first[0] {
		t.Fatalf("excluded records = %+v", excluded)
	}

	ds, err := store.Dataset(ctx, bank)
	if err != nil {
		t.Fatalf("Dataset: %v", err)
	}
	if ds.State != ledger.StateProcessed || ds.RecordCount != 2 {
		t.Fatalf("bank dataset = %+v", ds)
	}
}

func TestRecordsSkipsFailedDatasets(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	ctx := context.Background()
	key := ledger.Key{Category: "7.날짜-시간", Split: "training"}
	if err := store.ReplaceRecords(ctx, key, []manifest.Record{{AudioFilepath: "/a.wav"}}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if err := store.MarkFailed(ctx, key, errors.New("rerun failed")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	records, err := store.Records(ctx, "training", nil)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected failed dataset excluded, got %+v", records)
	}
}

func TestDatasetsListing(t *testing.T) {
	store := testsupport.MustOpenLedger(t)
	ctx := context.Background()
	for _, key := range []ledger.Key{
		{Category: "b", Split: "validation"},
		{Category: "a", Split: "training"},
		{Category: "c", Split: "training"},
	} {
		if err := store.SetState(ctx, key, ledger.StateExtracted); err != nil {
			t.Fatalf("SetState: %v", err)
		}
	}
	datasets, err := store.Datasets(ctx)
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}
	got := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		got = append(got, ds.Split+"/"+ds.Category)
	}
	want := []string{"training/a", "training/c", "validation/b"}
	if len(got) != len(want) {
		t.Fatalf("datasets = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("datasets = %v, want %v", got, want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := ledger.Key{Category: "8.단위", Split: "training"}
	if err := store.ReplaceRecords(context.Background(), key, []manifest.Record{{AudioFilepath: "/x.wav", Duration: 1, Text: "하나"}}); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.Records(context.Background(), "training", nil)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 || records[0].Text != "하나" {
		t.Fatalf("records after reopen = %+v", records)
	}
}

func TestParseState(t *testing.T) {
	if s, ok := ledger.ParseState(" Processed "); !ok || s != ledger.StateProcessed {
		t.Fatalf("ParseState = %q, %v", s, ok)
	}
	if _, ok := ledger.ParseState("done"); ok {
		t.Fatal("expected unknown state")
	}
}
