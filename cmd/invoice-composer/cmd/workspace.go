package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rezonia/invoice-composer/internal/document"
	"github.com/rezonia/invoice-composer/internal/draft"
	"github.com/rezonia/invoice-composer/internal/workspace"
)

// openStore returns the configured draft store and a function releasing it
func openStore(ctx context.Context) (draft.Store, func(), error) {
	if redisAddr != "" {
		store := draft.NewRedisStore(draft.RedisConf{Addr: redisAddr, Prefix: redisPrefix})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", redisAddr, err)
		}
		printVerbose("Drafts in redis at %s\n", redisAddr)
		return store, func() { _ = store.Close() }, nil
	}

	store, err := draft.NewFileStore(draftDir)
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Drafts in %s\n", store.Dir())
	return store, func() {}, nil
}

// openWorkspace loads the invoice a command works on: the draft file named
// in args when there is one, otherwise the stored draft. A draft file is
// never written back.
func openWorkspace(ctx context.Context, args []string, opts ...workspace.Option) (*workspace.Workspace, func(), error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read draft: %w", err)
		}
		s, err := document.Decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", args[0], err)
		}

		ws, err := workspace.New(draft.NewMemoryStore(), opts...)
		if err != nil {
			return nil, nil, err
		}
		ws.Restore(s)
		printVerbose("Loaded %s\n", args[0])
		return ws, func() { _ = ws.Close(context.Background()) }, nil
	}

	store, release, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	ws, err := workspace.New(store, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	restored, err := ws.Open(ctx)
	if err != nil {
		release()
		return nil, nil, err
	}
	if !restored {
		printVerbose("No stored draft, using a blank invoice\n")
	}
	return ws, func() {
		_ = ws.Close(context.Background())
		release()
	}, nil
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func checkFormat() error {
	switch outputFormat {
	case "json", "table":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
