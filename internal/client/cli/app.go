// Package cli is the interactive front end of the ryuin upload pipeline:
// it uploads attachment batches and submits contact inquiries against a
// running API server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CHJCOCO/ryuin/internal/client/config"
	"github.com/CHJCOCO/ryuin/internal/client/contact"
	"github.com/CHJCOCO/ryuin/internal/client/transport"
	"github.com/CHJCOCO/ryuin/internal/client/uploader"
	"github.com/CHJCOCO/ryuin/internal/logging"
)

type App struct {
	config    *config.Config
	uploader  *uploader.Uploader
	submitter *contact.Submitter
	api       *contact.Client
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	var tr transport.FileTransport
	switch c.Transport {
	case config.TransportServer:
		tr = transport.NewServerTransport(c.ServerBaseURL, nil)
	case config.TransportPresigned:
		tr = transport.NewPresignedTransport(c.ServerBaseURL, nil)
	default:
		return nil, fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, config.TransportServer, config.TransportPresigned)
	}

	logger := logging.NewJSON(os.Stderr)
	up := uploader.New(tr, logger)
	api := contact.NewClient(c.ServerBaseURL, c.Origin, nil)

	return &App{
		config:    c,
		uploader:  up,
		submitter: contact.NewSubmitter(api, up),
		api:       api,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {

	fmt.Fprintln(a.out, "ryuin upload CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "ryuin> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: upload <file>..., inquiry, check, exit")

		case "upload":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: upload <file>...")
				continue
			}
			a.Upload(ctx, args)

		case "inquiry":
			a.Inquiry(ctx)

		case "check":
			a.CheckConfig(ctx)

		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return

		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) CheckConfig(ctx context.Context) {
	ok, err := a.api.CheckEmailConfig(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if ok {
		fmt.Fprintln(a.out, "Email delivery is configured")
	} else {
		fmt.Fprintln(a.out, "Email delivery is NOT configured")
	}
}
