// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package main

import (
	"net"
	"os"

	"github.com/hhorai/mme/encoding/s1ap"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultReadBuffer = 8192
	defaultLogLevel   = "info"
	defaultMaxSizeMB  = 100
	defaultMaxAgeDays = 7
)

type config struct {
	S1MME   s1mmeConfig   `yaml:"s1mme"`
	Codec   codecConfig   `yaml:"codec"`
	Metrics metricsConfig `yaml:"metrics"`
	Logs    logConfig     `yaml:"logs"`
}

type s1mmeConfig struct {
	// Addrs are the local addresses of the multi-homed association.
	// Empty means the wildcard address.
	Addrs      []string `yaml:"addrs"`
	Port       int      `yaml:"port"`
	Interface  string   `yaml:"interface"`
	Masklen    int      `yaml:"masklen"`
	ReadBuffer int      `yaml:"readBuffer"`
}

type codecConfig struct {
	UnsupportedIE string `yaml:"unsupportedIE"`
	Extensions    string `yaml:"extensions"`
}

type metricsConfig struct {
	Addr string `yaml:"addr"`
}

type logConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// loadConfig reads the YAML file at path. An empty path yields the
// defaults.
func loadConfig(path string) (cfg config, err error) {

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, errors.Wrap(err, "open config")
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse config %s", path)
		}
	}

	cfg.setDefaults()
	err = cfg.validate()
	return
}

func (cfg *config) setDefaults() {
	if cfg.S1MME.Port == 0 {
		cfg.S1MME.Port = s1ap.Port
	}
	if cfg.S1MME.Masklen == 0 {
		cfg.S1MME.Masklen = 24
	}
	if cfg.S1MME.ReadBuffer == 0 {
		cfg.S1MME.ReadBuffer = defaultReadBuffer
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = defaultLogLevel
	}
	if cfg.Logs.MaxSizeMB == 0 {
		cfg.Logs.MaxSizeMB = defaultMaxSizeMB
	}
	if cfg.Logs.MaxAgeDays == 0 {
		cfg.Logs.MaxAgeDays = defaultMaxAgeDays
	}
}

func (cfg *config) validate() error {
	if cfg.S1MME.Port < 1 || cfg.S1MME.Port > 65535 {
		return errors.Errorf("s1mme.port out of range: %d", cfg.S1MME.Port)
	}
	if _, err := cfg.listenAddrs(); err != nil {
		return err
	}
	if cfg.S1MME.Interface != "" && len(cfg.S1MME.Addrs) == 0 {
		return errors.New("s1mme.interface needs at least one address")
	}
	if _, err := cfg.options(); err != nil {
		return err
	}
	return nil
}

func (cfg *config) listenAddrs() (addrs []net.IPAddr, err error) {
	for _, s := range cfg.S1MME.Addrs {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, errors.Errorf("s1mme.addrs: invalid address %q", s)
		}
		addrs = append(addrs, net.IPAddr{IP: ip})
	}
	return
}

// options maps the codec section onto the decoder policies.
func (cfg *config) options() (opts s1ap.Options, err error) {
	if opts.UnsupportedIE, err = parsePolicy(cfg.Codec.UnsupportedIE); err != nil {
		return opts, errors.Wrap(err, "codec.unsupportedIE")
	}
	if opts.Extensions, err = parsePolicy(cfg.Codec.Extensions); err != nil {
		return opts, errors.Wrap(err, "codec.extensions")
	}
	return
}

func parsePolicy(s string) (s1ap.Policy, error) {
	switch s {
	case "", "default":
		return s1ap.PolicyDefault, nil
	case "abort":
		return s1ap.PolicyAbort, nil
	case "skip":
		return s1ap.PolicySkip, nil
	}
	return s1ap.PolicyDefault, errors.Errorf("unknown policy %q", s)
}
