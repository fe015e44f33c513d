package prompt_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tplbench/pkg/prompt"
	"github.com/goliatone/go-tplbench/pkg/testsupport"
)

type fakeDriver struct {
	selected   []int
	selectErr  error
	confirm    bool
	confirmErr error

	lastSelect prompt.SelectConfig
}

func (f *fakeDriver) MultiSelect(_ context.Context, cfg prompt.SelectConfig) ([]int, error) {
	f.lastSelect = cfg
	return f.selected, f.selectErr
}

func (f *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return f.confirm, f.confirmErr
}

func TestPickTemplates_ReturnsSelectionInListingOrder(t *testing.T) {
	dir := seedTemplates(t)
	driver := &fakeDriver{selected: []int{2, 0}, confirm: true}

	got, err := prompt.PickTemplates(context.Background(), driver, dir, "")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}

	wantOptions := []string{"a.tpl", "b.tpl", filepath.Join("nested", "c.tpl")}
	if diff := cmp.Diff(wantOptions, driver.lastSelect.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, driver.lastSelect.Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	want := []string{filepath.Join(dir, "a.tpl"), filepath.Join(dir, "nested", "c.tpl")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestPickTemplates_Errors(t *testing.T) {
	dir := seedTemplates(t)
	ctx := context.Background()

	if _, err := prompt.PickTemplates(ctx, &fakeDriver{confirm: true}, dir, ".tpl"); !errors.Is(err, prompt.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if _, err := prompt.PickTemplates(ctx, &fakeDriver{selected: []int{0}}, dir, ".tpl"); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted on declined confirm, got %v", err)
	}
	if _, err := prompt.PickTemplates(ctx, &fakeDriver{selectErr: prompt.ErrAborted}, dir, ".tpl"); !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted from driver, got %v", err)
	}
	if _, err := prompt.PickTemplates(ctx, &fakeDriver{}, dir, "html"); !errors.Is(err, prompt.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
	if _, err := prompt.PickTemplates(ctx, &fakeDriver{}, filepath.Join(dir, "missing"), ""); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := prompt.PickTemplates(ctx, nil, dir, ""); err == nil {
		t.Fatal("expected error for nil driver")
	}
}

func seedTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testsupport.WriteTemplate(t, dir, "b.tpl", "b")
	testsupport.WriteTemplate(t, dir, "a.tpl", "a")
	testsupport.WriteTemplate(t, dir, filepath.Join("nested", "c.tpl"), "c")
	testsupport.WriteTemplate(t, dir, "notes.txt", "ignored")
	return dir
}
