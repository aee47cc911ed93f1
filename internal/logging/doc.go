// Package logging provides the structured Logger every connection and
// worker writes through. The interface is intentionally narrow (four
// levels, WithFields, WithRequestID) so call sites never depend on
// zerolog directly; New wires the interface to a zerolog.Logger.
//
//	log := logging.New(logging.Config{Level: logging.LevelInfo, Format: logging.FormatConsole})
//	connLog := log.WithRequestID(logging.GenerateRequestID()).WithFields("peer", peerAddr)
//	connLog.Info("accept")
package logging
