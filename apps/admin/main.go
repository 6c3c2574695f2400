package main

import (
	"log"
	"os"

	"github.com/llmhomework/portal/core"
	"github.com/llmhomework/portal/core/session"
	"github.com/llmhomework/portal/services/api"
	"github.com/llmhomework/portal/storage/state"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up persisted client state
	store, err := state.OpenFileStore(conf.StatePath)
	errAndDie(err)

	sess := session.New(store)

	// start CLI
	cli := commandLine{
		sess:   sess,
		client: api.NewClient(conf, sess),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
