/*
Package log provides structured logging for HelixDB using zerolog.

It wraps zerolog with a package-level global logger, configurable level and
format (JSON or console), and helper constructors that attach
request/component-scoped fields (WithComponent, WithTxnID, WithQuery,
WithRequestID). WithTxnID and WithQuery are not called anywhere else in
the module.

Initialize once at process start:

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	log.Logger.Info().Msg("helixdb starting")

Component loggers carry context through a call without threading extra
parameters:

	txnLog := log.WithTxnID(42)
	txnLog.Debug().Str("bucket", "nodes_db").Msg("put_node")
*/
package log
