package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"promptcraft_server/internal/layout"
	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/render"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/storage"
	"promptcraft_server/internal/studio"
)

var generateOpts struct {
	format     string
	seed       uint64
	rulesOnly  bool
	responsive bool
	save       bool
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a layout from a prompt and print it",
	Example: `  promptcraft generate "Create a CRM dashboard with a user table"
  promptcraft generate --format html --rules-only "Build a contact form" > form.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.format, "format", "f", "json", "output format: json, yaml or html")
	f.Uint64Var(&generateOpts.seed, "seed", 0, "seed for the rule-based parser (0 = random)")
	f.BoolVar(&generateOpts.rulesOnly, "rules-only", false, "skip the AI model even when one is configured")
	f.BoolVar(&generateOpts.responsive, "responsive-props", false, "add responsive=true to every component's props")
	f.BoolVar(&generateOpts.save, "save", false, "store the result as a project in the database")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	var opts []studio.Option
	opts = append(opts, studio.WithTimeout(cfg.AITimeout))
	if generateOpts.seed != 0 {
		opts = append(opts, studio.WithParser(parser.New(parser.WithSeed(generateOpts.seed))))
	}
	var collab studio.Collaborator
	if !generateOpts.rulesOnly {
		collab = newGenerator(cfg)
	}
	st := studio.New(collab, opts...)

	res, err := st.Generate(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	if res.Notice != "" && !generateOpts.rulesOnly {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Notice)
	}
	out := res.Schema
	if generateOpts.responsive {
		out = layout.ApplyResponsiveFlag(out)
	}

	if generateOpts.save {
		store, err := storage.Open(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		saved, err := store.SaveProject(cmd.Context(), schema.Project{
			Name:        out.Name,
			Description: out.Description,
			Prompt:      prompt,
			Schema:      out,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved project %s\n", saved.ID)
	}

	return writeSchema(cmd.OutOrStdout(), out, generateOpts.format)
}

func writeSchema(w io.Writer, s schema.LayoutSchema, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("cannot encode yaml: %w", err)
		}
		return enc.Close()
	case "html":
		reg, err := registry.New()
		if err != nil {
			return err
		}
		return render.New(reg).Document(w, s)
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or html)", format)
	}
}
