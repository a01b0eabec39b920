// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package util

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const PromNamespace = "promfdw"

// ParseEnv takes a prefix string p and *flag.FlagSet. Each flag
// in the FlagSet is exposed as an upper case environment variable
// prefixed with p. Any flag that was not explicitly set by a user
// is updated to the environment variable, if set.
func ParseEnv(p string, fs *flag.FlagSet) error {
	var err error
	set := make(map[string]struct{})
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = struct{}{}
	})

	fs.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		envVar := GetEnvVarName(p, f.Name)

		if val := os.Getenv(envVar); val != "" {
			if _, defined := set[f.Name]; !defined {
				if err = fs.Set(f.Name, val); err != nil {
					err = fmt.Errorf(`error setting flag "%s" from env variable "%s": %w`,
						f.Name,
						envVar,
						err)
					return
				}
			}
		}

		f.Usage = fmt.Sprintf("%s [%s]", f.Usage, envVar)
	})

	return err
}

// GetEnvVarName returns the name of the environment variable used
// for setting the configuration flag based on a prefix and flag name.
func GetEnvVarName(prefix, fName string) (envVar string) {
	envVar = fmt.Sprintf("%s_%s", prefix, strings.ToUpper(fName))
	envVar = strings.ReplaceAll(envVar, "-", "_")
	return strings.ReplaceAll(envVar, ".", "_")
}

// CommaSeparatedList is a flag value holding a comma separated list of strings.
type CommaSeparatedList []string

func (v *CommaSeparatedList) String() string {
	if v != nil {
		return strings.Join(*v, ",")
	}
	return ""
}

func (v *CommaSeparatedList) Set(s string) error {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	*v = list
	return nil
}

// RepeatedFlag collects every occurrence of a flag, in order.
type RepeatedFlag []string

func (v *RepeatedFlag) String() string {
	if v != nil {
		return strings.Join(*v, "; ")
	}
	return ""
}

func (v *RepeatedFlag) Set(s string) error {
	*v = append(*v, s)
	return nil
}
