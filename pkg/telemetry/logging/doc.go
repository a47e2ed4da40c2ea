// Package logging provides structured logging with secret redaction.
//
// It wraps log/slog with JSON and text handlers and scrubs credential
// material inside the handler itself: passwords embedded in connection
// URLs, bearer tokens, key=value secrets, and any value logged under a
// credential-named key such as "password" or "api_key". Because the
// handler does the scrubbing, records logged through slog.Default()
// are redacted too once the logger is installed with slog.SetDefault.
//
//	logger, _ := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	logger.Info("storage configured",
//	    "url", "postgres://app:hunter2@db:5432/exchange", // password redacted
//	)
package logging
