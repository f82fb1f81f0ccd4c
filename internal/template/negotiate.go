package template

import (
	"context"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/prompt"
)

// Choice labels are compared verbatim and are not translated.
const (
	ChoiceNo       = "No"
	ChoiceYesToAll = "Yes to all"
)

// ConfirmOverwrite decides whether files may be written under destRoot.
// The user is asked once, at the first target that already exists; only
// "Yes to all" lets the write proceed. Without conflicts it returns true
// and never prompts.
func ConfirmOverwrite(ctx context.Context, store filestore.Store, destRoot string, files []FileInfo, p prompt.Prompter) (bool, error) {
	for _, f := range files {
		target, err := f.Target(destRoot)
		if err != nil {
			return false, apperr.IO("check", f.FileName, err)
		}
		exists, err := store.Exists(target)
		if err != nil {
			return false, err
		}
		if !exists {
			continue
		}

		choice, ok, err := p.Confirm(ctx, i18n.Tf("confirm.overwrite", target), []string{ChoiceNo, ChoiceYesToAll})
		if err != nil {
			return false, err
		}
		return ok && choice == ChoiceYesToAll, nil
	}
	return true, nil
}

// EnsureOverwrite is ConfirmOverwrite with a declined prompt turned into
// apperr.ErrUserCancelled.
func EnsureOverwrite(ctx context.Context, store filestore.Store, destRoot string, files []FileInfo, p prompt.Prompter) error {
	ok, err := ConfirmOverwrite(ctx, store, destRoot, files, p)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrUserCancelled
	}
	return nil
}

// Conflicts lists every record whose target already exists, for previews.
func Conflicts(store filestore.Store, destRoot string, files []FileInfo) ([]Written, error) {
	var out []Written
	for _, f := range files {
		target, err := f.Target(destRoot)
		if err != nil {
			return nil, apperr.IO("check", f.FileName, err)
		}
		exists, err := store.Exists(target)
		if err != nil {
			return nil, err
		}
		if exists {
			act := ActionOverwrite
			if !f.Overwrite {
				act = ActionSkip
			}
			out = append(out, Written{File: f, Path: target, Action: act})
		}
	}
	return out, nil
}
