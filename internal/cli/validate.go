package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/components"
)

// ViewError is one view that failed to compile.
type ViewError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Files  int         `json:"files"`
	Errors []ViewError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <views-dir>",
		Short: "Compile CUE views without rendering",
		Long: `Compile every .cue view under a directory against the built-in
components and report errors with their source positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, viewsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(viewsDir); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("views directory not found: %s", viewsDir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("views directory not found: %s", viewsDir))
	}

	files, err := findViewFiles(viewsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find views", err)
	}
	if len(files) == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no .cue files in %s", viewsDir), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("no .cue files in %s", viewsDir))
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", len(files), viewsDir)

	registry := components.Default(components.NewControls())
	result := ValidationResult{Valid: true, Files: len(files)}
	for _, f := range files {
		if _, err := compiler.LoadView(f, registry); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, viewError(f, err))
			continue
		}
		formatter.VerboseLog("ok %s", f)
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "✓ %d view(s) valid\n", result.Files)
	} else {
		for _, e := range result.Errors {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", formatViewError(e))
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d view(s) invalid", len(result.Errors)))
	}
	return nil
}

func findViewFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func viewError(file string, err error) ViewError {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		return ViewError{File: file, Code: ErrCodeCompile, Message: err.Error()}
	}
	ve := ViewError{File: file, Code: ce.Code, Field: ce.Field, Message: ce.Message}
	if ce.Pos.IsValid() {
		ve.Line = ce.Pos.Line()
		ve.Column = ce.Pos.Column()
	}
	return ve
}

func formatViewError(e ViewError) string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: [%s] %s: %s", loc, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, e.Message)
}
