package update

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// AssumeVersionEnv overrides the version the newest release is compared against.
const AssumeVersionEnv = "RDTS_UPDATER_ASSUME_VERSION"

// fallbackAssumedVersion is used when AssumeVersionEnv is set but unparsable.
var fallbackAssumedVersion = Version{Major: 1}

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// ReferenceVersion returns the version releases are compared against: the
// value of AssumeVersionEnv when set, otherwise current. A nil lookup reads
// the process environment.
func ReferenceVersion(current Version, lookup LookupEnvFunc) Version {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s, ok := lookup(AssumeVersionEnv)
	if !ok {
		return current
	}
	v, err := ParseVersion(s)
	if err != nil {
		log.WithField("value", s).Debugf("%s is not a version, assuming %s", AssumeVersionEnv, fallbackAssumedVersion)
		return fallbackAssumedVersion
	}
	log.WithField("version", v.String()).Debugf("%s overrides current version", AssumeVersionEnv)
	return v
}
