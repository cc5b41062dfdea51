package common

// APIKeyEnvName is the environment variable the backend credential is read
// from when it is not supplied via config or an interactive prompt.
const APIKeyEnvName = "GENAI_API_KEY"

// RefusalDetailLimit bounds the length of backend refusal text surfaced to
// the user; longer messages are truncated with an ellipsis.
const RefusalDetailLimit = 150
