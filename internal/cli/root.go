package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Generate(ctx context.Context) error
	Video(ctx context.Context) error
	Variations(ctx context.Context, arg string) error
	Upscale(ctx context.Context, arg string) error
	Save(ctx context.Context, arg string) error
	List(ctx context.Context) error
	Show(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
	Export(ctx context.Context, arg string) error
	History(ctx context.Context) error
	Styles(ctx context.Context) error
	Stats(ctx context.Context) error
}

const helpText = "Available commands: (g)enerate, video, variations <n>, upscale <n>, " +
	"save <n>, (l)ist, show <id>, delete <id>, export <id>, history, styles, stats, exit"

// runREPL starts a simple read–eval–print loop for the GenStudio CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands taking <n> address an artifact of the latest generation by its
// 1-based index; commands taking <id> address a gallery record.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("gs> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "g", "generate":
			_ = a.Generate(ctx)

		case "video":
			_ = a.Video(ctx)

		case "variations":
			_ = a.Variations(ctx, arg)

		case "upscale":
			_ = a.Upscale(ctx, arg)

		case "save":
			_ = a.Save(ctx, arg)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, arg)

		case "delete":
			_ = a.Delete(ctx, arg)

		case "export":
			_ = a.Export(ctx, arg)

		case "history":
			_ = a.History(ctx)

		case "styles":
			_ = a.Styles(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to GenStudio CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}
