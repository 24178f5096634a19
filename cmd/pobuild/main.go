// Package main is the pobuild entry point.
package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/canonical/pobuild/cmd/pobuild/cli"
	"github.com/canonical/pobuild/internal/consts"
	"github.com/canonical/pobuild/internal/i18n"
	log "github.com/sirupsen/logrus"
)

func main() {
	i18n.InitI18nDomain(consts.TEXTDOMAIN)
	a := cli.New()
	os.Exit(run(a))
}

type app interface {
	Run() error
	UsageError() bool
	Quit()
}

// Exit codes of pobuild.
const (
	exitOK         = 0
	exitBuildError = 1
	exitUsageError = 2
)

func run(a app) int {
	defer installSignalHandler(a)()

	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
		DisableTimestamp:       true,
	})

	if err := a.Run(); err != nil {
		log.Error(err)

		if a.UsageError() {
			return exitUsageError
		}
		return exitBuildError
	}

	return exitOK
}

// installSignalHandler stops running msginit commands on SIGINT or SIGTERM.
// The returned function uninstalls the handler.
func installSignalHandler(a app) func() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case sig := <-c:
			log.Infof(i18n.G("Received %s, stopping catalog creation"), sig)
			a.Quit()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(c)
		close(done)
		wg.Wait()
	}
}
