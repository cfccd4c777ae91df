// Package core contains the shared domain types of the document assistant:
// conversational messages and sessions, the session store contract, classified
// intents and the closed union of typed handler responses. Higher layers
// (classify, handler, engine, session) depend on core; core depends on nothing
// but the standard library and uuid.
package core
