// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"scilla/internal/config"
	"scilla/internal/lsp"
)

var handler protocol.Handler // Protocol handler instance (wired up below)

func main() {
	verbosity := flag.Int("v", 1, "log verbosity (0 = quiet)")
	configPath := flag.String("config", "", "TOML settings used until the client sends its own")
	logFile := flag.String("log", "", "write logs to this file instead of stderr")
	flag.Parse()

	var path *string
	if *logFile != "" {
		path = logFile
	}
	commonlog.Configure(*verbosity, path)
	log := commonlog.GetLogger("scilla.server")

	settings := config.Default()
	if *configPath != "" {
		var err error
		settings, err = config.Load(afero.NewOsFs(), *configPath)
		if err != nil {
			log.Errorf("%s", err)
			os.Exit(1)
		}
	}

	scillaHandler := lsp.NewScillaHandler(lsp.WithSettings(settings))

	handler = protocol.Handler{
		Initialize:                      scillaHandler.Initialize,
		Initialized:                     scillaHandler.Initialized,
		Shutdown:                        scillaHandler.Shutdown,
		SetTrace:                        scillaHandler.SetTrace,
		TextDocumentDidOpen:             scillaHandler.TextDocumentDidOpen,
		TextDocumentDidChange:           scillaHandler.TextDocumentDidChange,
		TextDocumentDidSave:             scillaHandler.TextDocumentDidSave,
		TextDocumentDidClose:            scillaHandler.TextDocumentDidClose,
		WorkspaceDidChangeConfiguration: scillaHandler.WorkspaceDidChangeConfiguration,
		TextDocumentHover:               scillaHandler.TextDocumentHover,
		TextDocumentCompletion:          scillaHandler.TextDocumentCompletion,
		TextDocumentFormatting:          scillaHandler.TextDocumentFormatting,
		TextDocumentSemanticTokensFull:  scillaHandler.TextDocumentSemanticTokensFull,
	}

	// debug=false keeps glsp's own request tracing out of the log
	s := server.NewServer(&handler, lsp.Name, false)

	log.Infof("starting %s language server %s", lsp.Name, lsp.Version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("server stopped: %s", err)
		os.Exit(1)
	}
}
