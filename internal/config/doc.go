// Package config loads runtime settings from defaults, an optional YAML file,
// optional .env files and environment variables, in that order of precedence
// (later wins).
//
// Recognised variables: GEMINI_API_KEY (or API_KEY), GEMINI_API_BASE_URL,
// AISTUDIO_BACKEND, AISTUDIO_MODEL_TEXT, AISTUDIO_MODEL_VISION,
// AISTUDIO_MODEL_CODING, AISTUDIO_TIMEOUT, AISTUDIO_MAX_RETRIES,
// AISTUDIO_LOG_LEVEL, AISTUDIO_LOG_FORMAT, AISTUDIO_LOG_LLM, AISTUDIO_HISTORY,
// AISTUDIO_HISTORY_PATH and AISTUDIO_ADDR.
//
// The default history backend is "auto": one-shot CLI commands record to a
// sqlite file (DefaultHistoryPath unless history.path is set) so that a later
// "aistudio history" sees earlier runs, while "aistudio serve" keeps a bounded
// in-memory store.
package config
