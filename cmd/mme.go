// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mme",
		Short:        "S1-MME endpoint",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand(), newDecodeCommand())
	return cmd
}

type serveOptions struct {
	configPath string
	addrs      []string
	port       int
	logLevel   string
}

func addServeFlags(flags *pflag.FlagSet, o *serveOptions) {
	flags.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	flags.StringSliceVar(&o.addrs, "addr", nil, "S1-MME listen addresses")
	flags.IntVar(&o.port, "port", 0, "S1-MME SCTP port")
	flags.StringVar(&o.logLevel, "log-level", "", "log level")
}

func newServeCommand() *cobra.Command {
	var o serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept eNB associations and decode their S1AP PDUs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o.configPath)
			if err != nil {
				return err
			}
			o.apply(&cfg)
			if err := cfg.validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt,
				syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	addServeFlags(cmd.Flags(), &o)
	return cmd
}

// apply overrides the file configuration with the flags given.
func (o *serveOptions) apply(cfg *config) {
	if len(o.addrs) > 0 {
		cfg.S1MME.Addrs = o.addrs
	}
	if o.port != 0 {
		cfg.S1MME.Port = o.port
	}
	if o.logLevel != "" {
		cfg.Logs.Level = o.logLevel
	}
}

func runServe(ctx context.Context, cfg config) error {

	log, err := setupLogging(cfg.Logs)
	if err != nil {
		return err
	}

	addrs, err := cfg.listenAddrs()
	if err != nil {
		return err
	}
	if cfg.S1MME.Interface != "" {
		for _, a := range addrs {
			added, err := addS1MMEAddress(cfg.S1MME.Interface, a.IP,
				cfg.S1MME.Masklen)
			if err != nil {
				return err
			}
			if added {
				log.WithField("addr", a.IP).
					WithField("interface", cfg.S1MME.Interface).
					Info("address added")
			}
		}
	}

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, reg, log)
	}

	srv, err := newServer(cfg, log, m, newLogHandler())
	if err != nil {
		return err
	}

	ln, err := listenS1MME(addrs, cfg.S1MME.Port)
	if err != nil {
		return err
	}
	return srv.Serve(ctx, ln)
}

type decodeOptions struct {
	skipUnsupported  bool
	rejectExtensions bool
}

func newDecodeCommand() *cobra.Command {
	var o decodeOptions

	cmd := &cobra.Command{
		Use:   "decode HEX...",
		Short: "Dump S1AP PDUs given in hex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseHex(strings.Join(args, ""))
			if err != nil {
				return err
			}
			m, err := s1ap.DecodeWithOptions(b, o.options())
			if err != nil {
				return err
			}
			defer m.Free()
			m.Show(s1ap.NewPrinter(cmd.OutOrStdout()))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&o.skipUnsupported, "skip-unsupported", false,
		"keep IEs with unknown ids as raw values")
	flags.BoolVar(&o.rejectExtensions, "reject-extensions", false,
		"fail on extension additions")
	return cmd
}

func (o decodeOptions) options() (opts s1ap.Options) {
	if o.skipUnsupported {
		opts.UnsupportedIE = s1ap.PolicySkip
	}
	if o.rejectExtensions {
		opts.Extensions = s1ap.PolicyAbort
	}
	return
}

// parseHex accepts octets separated by spaces or colons.
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "\n", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex")
	}
	return b, nil
}
