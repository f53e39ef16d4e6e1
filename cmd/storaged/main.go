// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// storaged serves a per-user registry of named storage endpoints over
// an authenticated HTTP JSON API, persisted in MongoDB.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/canonical/storaged/apiserver"
	"github.com/canonical/storaged/apiserver/authentication"
	"github.com/canonical/storaged/mongo"
	"github.com/canonical/storaged/state"
)

var logger = loggo.GetLogger("storaged.cmd")

const databaseName = "storaged"

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal arrives.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f := gnuflag.NewFlagSetWithFlagKnownAs("storaged", gnuflag.ContinueOnError, "option")
	mongoURL := f.String("mongo-url", "localhost:27017", "address of the MongoDB server")
	addr := f.String("addr", ":8080", "address to serve the API on")
	endpointPrefix := f.String("endpoint-prefix", "", "bucket/prefix under which default storage endpoints are created")
	loggingConfig := f.String("logging-config", "", "loggo configuration, e.g. \"<root>=DEBUG\"")
	addUser := f.String("add-user", "", "provision a user given as name:password, then exit")
	if err := f.Parse(true, args); err != nil {
		return errors.Trace(err)
	}
	if *loggingConfig != "" {
		if err := loggo.ConfigureLoggers(*loggingConfig); err != nil {
			return errors.Trace(err)
		}
	}

	session, err := mongo.Dial(*mongoURL)
	if err != nil {
		return errors.Trace(err)
	}
	defer session.Close()

	st, err := state.NewState(mongo.NewDatabase(session.DB(databaseName)), state.Config{
		DefaultEndpointPrefix: *endpointPrefix,
		Clock:                 clock.WallClock,
	})
	if err != nil {
		return errors.Trace(err)
	}

	if *addUser != "" {
		name, password, err := parseUserSpec(*addUser)
		if err != nil {
			return errors.Trace(err)
		}
		user, err := st.AddUser(name, password)
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Printf("added user %s (%s)\n", user.Name(), user.Id())
		return nil
	}

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		return errors.Trace(err)
	}
	srv, err := apiserver.NewServer(listener, apiserver.ServerConfig{
		State:         st,
		Authenticator: &authentication.UserAuthenticator{Users: st},
	})
	if err != nil {
		return errors.Trace(err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Infof("caught %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()
	return errors.Trace(srv.Serve())
}

// parseUserSpec splits a name:password argument.
func parseUserSpec(spec string) (name, password string, err error) {
	name, password, ok := strings.Cut(spec, ":")
	if !ok || name == "" || password == "" {
		return "", "", errors.NotValidf("user spec %q", spec)
	}
	return name, password, nil
}
