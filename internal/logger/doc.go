// Package logger wraps a zap sugared logger behind package-level helpers.
// The level is shared through an atomic level, so loggers built with a nil
// level follow SetLevel. Contexts can carry their own logger, and WithKV
// attaches fields such as the song ID to everything logged through a context.
package logger
