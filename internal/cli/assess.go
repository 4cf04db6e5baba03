package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	app "produce-grader/internal/application"
	"produce-grader/internal/domain/entity"
	"produce-grader/internal/infrastructure/vision"
)

func newAssessCmd(opts *rootOptions) *cobra.Command {
	var (
		output  string
		product entity.ProductInfo
	)

	cmd := &cobra.Command{
		Use:   "assess <path|glob>...",
		Short: "Grade image files",
		Long: `Grade one or more images. Arguments may be file paths or doublestar globs
such as 'photos/**/*.jpg'; glob matches with unsupported extensions are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			format, err := resolveOutput(output, w)
			if err != nil {
				return err
			}

			files, err := expandPaths(args, vision.NewDecoder().Supports)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no images match %v", args)
			}

			uploads, err := readUploads(files)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, c, err := opts.openContainer(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Printf("Error closing services: %v", err)
				}
			}()

			batch, err := c.AssessmentService.AssessBatch(ctx, uploads, product)
			if err != nil {
				return err
			}

			out := newAssessOutput(batch, files)
			if format == outputJSON {
				return writeJSON(w, out)
			}
			return writeAssessTable(w, out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputAuto, "Output format: auto or table or json")
	cmd.Flags().StringVar(&product.Type, "product-type", "", "Product type, e.g. apple")
	cmd.Flags().StringVar(&product.Category, "product-category", "", "Product category, e.g. fruit")
	return cmd
}

// expandPaths раскрывает glob-шаблоны и убирает повторы, сохраняя порядок.
// Явно названные файлы проходят без фильтра, совпадения шаблонов фильтруются keep.
func expandPaths(args []string, keep func(string) bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		if pattern == "" || !hasMeta(pattern) {
			add(arg)
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(base), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			if keep(m) {
				add(filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m)))
			}
		}
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

func readUploads(files []string) ([]app.Upload, error) {
	uploads := make([]app.Upload, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		uploads = append(uploads, app.Upload{Filename: f, Data: data})
	}
	return uploads, nil
}
