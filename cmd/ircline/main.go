// Command ircline connects to an IRC server with the connection engine and
// prints substantive events. It keeps the session alive (keepalive probes,
// automatic reconnection) until killed or stdin closes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/telabyte/ircline/client"
	"github.com/telabyte/ircline/config"
	"github.com/telabyte/ircline/irc"
	"gopkg.in/inconshreveable/log15.v2"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	// .env carries secrets kept out of the config file. Missing is fine.
	godotenv.Load()

	conf, err := config.FromFile(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if pass := os.Getenv("IRC_PASSWORD"); pass != "" {
		conf.Password = pass
	}

	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(conf.Lvl(), log15.StderrHandler))

	cl, err := client.New(conf, logger)
	if err != nil {
		logger.Crit("failed to create client", "err", err)
		os.Exit(1)
	}

	if err = cl.Connect(); err != nil {
		logger.Crit("failed to connect", "err", err)
		os.Exit(1)
	}

	go consume(cl, conf, logger)

	input, quit := make(chan int), make(chan os.Signal, 2)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		input <- 0
	}()

	signal.Notify(quit, os.Interrupt, os.Kill)

	select {
	case <-input:
	case <-quit:
	}

	cl.Stop()
	logger.Info("Shutting down...")
}

// consume prints substantive events and joins the configured channels once
// registration finishes (end of MOTD, or no MOTD at all). The events
// channel is never closed, so this goroutine runs until process exit.
func consume(cl *client.Client, conf *config.Config, logger log15.Logger) {
	for msg := range cl.Events() {
		switch msg.Verb {
		case irc.RPL_ENDOFMOTD, irc.ERR_NOMOTD:
			for _, channel := range conf.Channels {
				if err := cl.Join(channel); err != nil {
					logger.Error("join failed", "channel", channel, "err", err)
				}
			}
		case irc.PRIVMSG, irc.NOTICE:
			who := msg.Nick
			if who == "" {
				who = msg.Source
			}
			fmt.Printf("[%s] <%s> %s\n", msg.Target, who, msg.Text)
		}
	}
}
