package fitcore

import "github.com/sirupsen/logrus"

// log is the package-wide diagnostic sink named in §6 ("logger(msg) —
// best-effort diagnostic sink"), defaulting to a plain logrus logger and
// overridable by the embedding application. Grounded on
// opensciencegrid-xrootd-monitoring-shoveler's log.go, which uses the same
// var-plus-SetLogger shape for the same reason: let a library log through
// whatever sink its host process already uses.
var log logrus.FieldLogger

func init() {
	log = logrus.New()
}

// SetLogger replaces the package-wide logger, letting the embedding
// application route fitcore's diagnostics into its own logging pipeline.
func SetLogger(logger logrus.FieldLogger) {
	log = logger
}
