package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/aistudio/internal/app"
	"github.com/leofalp/aistudio/providers/ai"
	"github.com/leofalp/aistudio/tools"
)

func (c *cli) newRunCmd() *cobra.Command {
	var (
		fields  []string
		image   string
		rawJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Run one tool",
		Example: `  aistudio run palette --field mood="Cyberpunk sunset"
  aistudio run travel -f destination=Kyoto -f days=5 -f budget=Luxury
  aistudio run vision --image ./photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := buildInput(fields, image)
			if err != nil {
				return err
			}

			r, err := c.runner(cmd.Context())
			if err != nil {
				return err
			}
			defer r.Close()

			run, err := r.Run(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}

			if rawJSON {
				return writeIndentedJSON(c.stdout, run)
			}
			if err := writeOutput(c.stdout, run.Output); err != nil {
				return err
			}
			fmt.Fprintf(c.stderr, "%s on %s: %d tokens, %s, %s\n",
				run.Output.Tool, run.Output.Model, run.Output.Usage.TotalTokens, run.Output.Cost.String(), run.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringVar(&image, "image", "", "image file for tools that take one")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "print the full run record as JSON")
	return cmd
}

// batchFile is the YAML document accepted by the batch command.
type batchFile struct {
	Parallelism int          `yaml:"parallelism"`
	Jobs        []batchEntry `yaml:"jobs"`
}

type batchEntry struct {
	Tool   string            `yaml:"tool"`
	Fields map[string]string `yaml:"fields"`
	Image  string            `yaml:"image"` // path, relative to the batch file
}

func (c *cli) newBatchCmd() *cobra.Command {
	var parallelism int

	cmd := &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Run many tools concurrently from a YAML file",
		Long: `Run the jobs listed in a YAML file, at most --parallelism at a time.

  parallelism: 4
  jobs:
    - tool: palette
      fields: {mood: Calm forest}
    - tool: vision
      image: ./photo.png

Results are printed as one JSON object per line, in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, filePar, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			par := c.cfg.Server.Parallelism
			if filePar > 0 {
				par = filePar
			}
			if parallelism > 0 {
				par = parallelism
			}

			r, err := c.runner(cmd.Context())
			if err != nil {
				return err
			}
			defer r.Close()

			results := r.RunBatch(cmd.Context(), jobs, par)
			return writeBatch(c.stdout, results)
		},
	}
	cmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0, "concurrent runs (overrides the file and config)")
	return cmd
}

type batchLine struct {
	Index int      `json:"index"`
	Tool  string   `json:"tool"`
	Run   *app.Run `json:"run,omitempty"`
	Error string   `json:"error,omitempty"`
}

// writeBatch prints one line per result and fails if any job failed.
func writeBatch(w io.Writer, results []app.BatchResult) error {
	enc := json.NewEncoder(w)
	failed := 0
	for i, res := range results {
		line := batchLine{Index: i, Tool: res.Job.Tool, Run: res.Run}
		if res.Err != nil {
			line.Error = res.Err.Error()
			failed++
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}

func loadBatch(path string) ([]app.Job, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var file batchFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%s: no jobs", path)
		}
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return nil, 0, fmt.Errorf("%s: no jobs", path)
	}

	dir := filepath.Dir(path)
	jobs := make([]app.Job, 0, len(file.Jobs))
	for i, entry := range file.Jobs {
		if strings.TrimSpace(entry.Tool) == "" {
			return nil, 0, fmt.Errorf("%s: job %d has no tool", path, i)
		}
		in := tools.Input{Fields: entry.Fields}
		if entry.Image != "" {
			imgPath := entry.Image
			if !filepath.IsAbs(imgPath) {
				imgPath = filepath.Join(dir, imgPath)
			}
			img, err := readImage(imgPath)
			if err != nil {
				return nil, 0, fmt.Errorf("%s: job %d: %w", path, i, err)
			}
			in.Image = img
		}
		jobs = append(jobs, app.Job{Tool: entry.Tool, Input: in})
	}
	return jobs, file.Parallelism, nil
}

func buildInput(fields []string, imagePath string) (tools.Input, error) {
	in := tools.Input{Fields: make(map[string]string, len(fields))}
	for _, kv := range fields {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return tools.Input{}, fmt.Errorf("%w: --field %q is not name=value", tools.ErrInvalidInput, kv)
		}
		in.Fields[strings.TrimSpace(name)] = value
	}
	if imagePath != "" {
		img, err := readImage(imagePath)
		if err != nil {
			return tools.Input{}, err
		}
		in.Image = img
	}
	return in, nil
}

func readImage(path string) (*ai.ImageData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return &ai.ImageData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(raw)}, nil
}

// writeOutput prints text replies verbatim and structured replies as JSON.
func writeOutput(w io.Writer, out *tools.Output) error {
	if out.Data == nil {
		_, err := fmt.Fprintln(w, out.Text)
		return err
	}
	return writeIndentedJSON(w, out.Data)
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
