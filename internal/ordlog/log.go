// Package ordlog is the ambient logging surface for the module: a
// single package-level *zap.SugaredLogger, rather than threading a
// logger through every function signature.
//
// The codec itself only ever logs at Debug, and only to note that it
// silently recovered a cursed inscription during non-strict parsing —
// it never logs at Error/Fatal and never exits the process. Those
// remain host-application concerns.
package ordlog

import "go.uber.org/zap"

// L is the package-level logger. It defaults to zap's production
// config so a host application gets structured JSON logs without any
// setup; call Set to install a differently configured logger (e.g. a
// development logger, or one routed to the host's own sink).
var L *zap.SugaredLogger

func init() {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken encoder/sink config,
		// which can't happen with the defaults used here.
		panic(err)
	}
	L = logger.Sugar()
}

// Set installs logger as the package-level logger, letting a host
// application redirect the codec's Debug-level recovery notices into
// its own logging pipeline.
func Set(logger *zap.SugaredLogger) {
	L = logger
}
