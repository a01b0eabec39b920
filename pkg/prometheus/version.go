// This file and its contents are licensed under the Apache License 2.0.
// Please see the included NOTICE for copyright information and
// LICENSE for a copy of the license.

package prometheus

import (
	"context"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	fdwerrors "github.com/timescale/promfdw/pkg/common/errors"
)

// SupportedVersionRange lists the Prometheus servers whose instant query
// API behaves as expected.
const SupportedVersionRange = ">=2.0.0"

var supportedVersions = semver.MustParseRange(SupportedVersionRange)

// ServerVersion asks the server for its build information. Servers older
// than 2.14 do not expose it.
func (c *Client) ServerVersion(ctx context.Context) (semver.Version, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	info, err := c.api.Buildinfo(ctx)
	if err != nil {
		return semver.Version{}, fdwerrors.Prometheus(errors.Wrap(err, "fetching build info"))
	}
	v, err := semver.ParseTolerant(info.Version)
	if err != nil {
		return semver.Version{}, fdwerrors.Prometheus(errors.Wrapf(err, "parsing server version %q", info.Version))
	}
	return v, nil
}

func CheckVersion(v semver.Version) error {
	if !supportedVersions(v) {
		return fmt.Errorf("Prometheus %s is outside of the supported range %s", v, SupportedVersionRange)
	}
	return nil
}
