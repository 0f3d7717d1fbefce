package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-chat/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file as HTML or PDF",
	Long:  "Renders a ResumeDocument JSON file with one of the eight templates. The output format follows the --out extension: .pdf is exported through headless Chrome, anything else is written as HTML.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderTemplateID string
	renderOutputFile string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to ResumeDocument JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplateID, "template", "t", "", "Template id; defaults to the document's templateId")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Output path, .html or .pdf (required)")

	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(renderInputFile)
	if err != nil {
		return err
	}
	id, err := resolveTemplate(renderTemplateID, doc)
	if err != nil {
		return err
	}

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	pages, err := writeDocument(cmd.Context(), newExporter(cfg, logger), doc, id, renderOutputFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if pages > 0 {
		_, _ = fmt.Fprintf(out, "Wrote %s (%s template, %d pages)\n", renderOutputFile, id, pages)
		return nil
	}
	_, _ = fmt.Fprintf(out, "Wrote %s (%s template)\n", renderOutputFile, id)
	return nil
}

// resolveTemplate picks the flag value when given, otherwise the document's own template.
func resolveTemplate(flag string, doc *types.ResumeDocument) (types.TemplateID, error) {
	if flag == "" {
		if doc.TemplateID.Valid() {
			return doc.TemplateID, nil
		}
		return types.TemplateClassic, nil
	}
	id := types.TemplateID(flag)
	if !id.Valid() {
		return "", fmt.Errorf("unknown template %q", flag)
	}
	return id, nil
}
