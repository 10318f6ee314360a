package cli

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-jyaml/internal/logger"
	"github.com/shapestone/shape-jyaml/pkg/jyaml"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [patterns...]",
		Short: "Check that JYAML documents are well formed",
		Long: `Validate JYAML documents. Patterns may use "**" to match across
directories. With no patterns, stdin is validated.

Each invalid file is reported as "path: error" on stderr, and the command
fails if any file is invalid.`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidate,
	}
	cmd.Flags().Int(keyWorkers, runtime.NumCPU(), "Number of files validated concurrently")
	cmd.Flags().StringArray("exclude", nil, "Skip paths matching this pattern (repeatable)")
	addParseFlags(cmd)
	return cmd
}

// validation is the outcome for one file.
type validation struct {
	path string
	err  error
}

func runValidate(cmd *cobra.Command, args []string) error {
	exclude, _ := cmd.Flags().GetStringArray("exclude")

	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := parseOptions(v)
	if err != nil {
		return err
	}
	transcode := v.GetBool(keyTranscode)

	files := []string{"-"}
	if len(args) > 0 {
		if files, err = expandFiles(args, exclude); err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files left to validate")
		}
	}

	results, err := validateFiles(files, v.GetInt(keyWorkers), func(path string) error {
		data, err := readFile(path, cmd.InOrStdin(), transcode)
		if err != nil {
			return err
		}
		return jyaml.ValidateWithOptions(string(data), opts)
	})
	if err != nil {
		return err
	}

	failed := 0
	stderr := cmd.ErrOrStderr()
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "%s: %v\n", displayName(r.path), r.err)
			continue
		}
		logger.Debug("%s: ok", displayName(r.path))
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d files invalid", failed, len(results))
	}
	logger.Info("%d files valid", len(results))
	return nil
}

// validateFiles runs check for every file on a pool of workers. Results are
// in the order of files.
func validateFiles(files []string, workers int, check func(path string) error) ([]validation, error) {
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("error creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]validation, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = validation{path: path, err: check(path)}
		}); err != nil {
			wg.Done()
			results[i] = validation{path: path, err: err}
		}
	}
	wg.Wait()
	return results, nil
}
