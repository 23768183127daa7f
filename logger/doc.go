// Package logger provides structured logging for dockerkit using zerolog.
//
// The library is quiet by default: the global logger writes warnings and
// errors only, so embedding applications do not see per-request noise unless
// they opt in with a lower level.
//
// # Usage
//
//	log := logger.WithComponent("transport")
//	log.Warn("could not load native certificate store",
//	    logger.Fields(logger.FieldError, err.Error()))
package logger
