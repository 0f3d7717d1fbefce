package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/export"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/rendering"
	"github.com/jonathan/resume-chat/internal/types"
)

var (
	chatNoGreet bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Build a resume interactively in the terminal",
	Long: `Start a terminal conversation with the resume assistant. Plain lines are sent as chat
messages; lines starting with / are commands (type /help for the list).`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatNoGreet, "no-greet", false, "Skip the assistant's opening greeting")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	session := chat.NewSession(newAssistant(cfg, logger), observability.Component(logger, "chat"))
	r := newREPL(session, newExporter(cfg, logger), cmd.OutOrStdout())

	ctx := cmd.Context()
	if !chatNoGreet {
		if result, err := session.Greet(ctx); err == nil {
			r.printReply(result)
		}
	}
	return r.run(ctx, cmd.InOrStdin())
}

const chatHelp = `Commands:
  /import <file>     fill the resume from a PDF, PNG or JPEG
  /image <file>      set the profile picture
  /template [id]     list templates, or switch to one
  /resume            show the current resume
  /history           show the conversation so far
  /html <file>       write the rendered resume as HTML
  /export [file]     export the resume as PDF
  /reset             start over
  /quit              leave`

// repl drives one chat session from line-oriented input.
type repl struct {
	session  *chat.Session
	exporter export.Exporter
	printer  *observability.Printer
	out      io.Writer
}

func newREPL(session *chat.Session, exporter export.Exporter, out io.Writer) *repl {
	return &repl{
		session:  session,
		exporter: exporter,
		printer:  observability.NewPrinter(out),
		out:      out,
	}
}

//nolint:errcheck // terminal output
func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprint(r.out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			quit, err := r.handle(ctx, line)
			if err != nil {
				fmt.Fprintf(r.out, "Error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.out, "> ")
	}
	return scanner.Err()
}

// handle runs one input line. It reports true when the user asked to leave.
//
//nolint:errcheck // terminal output
func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(line, "/") {
		result, err := r.session.Send(ctx, line)
		if err != nil {
			return false, err
		}
		r.printReply(result)
		return false, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(r.out, chatHelp)

	case "reset":
		r.session.Reset()
		fmt.Fprintln(r.out, "Started over with an empty resume.")

	case "resume":
		doc, _ := r.session.Document()
		r.printer.PrintResume(doc)

	case "history":
		r.printer.PrintTranscript(r.session.Snapshot().Messages)

	case "template":
		if arg == "" {
			r.listTemplates()
			return false, nil
		}
		result, err := r.session.SelectTemplate(types.TemplateID(strings.ToLower(arg)))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Template: %s\n", rendering.LayoutFor(result.Session.TemplateID).Name)

	case "import":
		upload, err := readUpload(arg)
		if err != nil {
			return false, err
		}
		result, err := r.session.ImportResume(ctx, upload)
		if err != nil {
			return false, err
		}
		r.printReply(result)

	case "image":
		upload, err := readUpload(arg)
		if err != nil {
			return false, err
		}
		if _, err := r.session.UploadImage(upload); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Profile picture updated.")

	case "html":
		if arg == "" {
			return false, fmt.Errorf("usage: /html <file>")
		}
		doc, id := r.session.Document()
		if err := writeHTML(doc, id, arg); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Wrote %s\n", arg)

	case "export":
		if r.exporter == nil {
			return false, fmt.Errorf("PDF export is not available")
		}
		doc, id := r.session.Document()
		path := arg
		if path == "" {
			path = doc.ExportFileName()
		}
		pages, err := writePDF(ctx, r.exporter, doc, id, path)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Wrote %s (%d pages)\n", path, pages)

	default:
		return false, fmt.Errorf("unknown command /%s, type /help for the list", name)
	}
	return false, nil
}

//nolint:errcheck // terminal output
func (r *repl) printReply(result *chat.Result) {
	if result == nil || result.Reply == "" {
		return
	}
	r.printer.PrintMessage(types.ModelMessage(result.Reply))
	if result.TemplateChanged {
		fmt.Fprintf(r.out, "(switched to the %s template)\n", rendering.LayoutFor(result.Session.TemplateID).Name)
	}
}

//nolint:errcheck // terminal output
func (r *repl) listTemplates() {
	_, current := r.session.Document()
	for _, layout := range rendering.Catalog() {
		marker := " "
		if layout.ID == current {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %-13s %s\n", marker, layout.ID, layout.Description)
	}
}

// readUpload loads a local file for import or as a profile picture. The media type is
// sniffed from content downstream.
func readUpload(path string) (types.Upload, error) {
	if path == "" {
		return types.Upload{}, fmt.Errorf("a file path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return types.Upload{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.Size() > chat.MaxUploadBytes {
		return types.Upload{}, &chat.FileError{FileName: filepath.Base(path), Err: chat.ErrFileTooLarge}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Upload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return types.Upload{Name: filepath.Base(path), Data: data}, nil
}
