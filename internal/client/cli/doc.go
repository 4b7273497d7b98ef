// Package cli provides the up-skills command-line client.
//
// It wires configuration and the API client into a one-shot command
// dispatcher: each invocation runs a single command and exits. Typical flow:
// `init` once to create a collection and store its token, then `add`, `list`,
// `search`, `get` and `remove` against that collection.
//
// Commands:
//   - init                       — create a collection, store the token
//   - auth                       — store an existing token (prompted without echo)
//   - add <url> [--alias a]      — register a SKILL.md pointer
//   - list                       — list registered skills
//   - search <query>             — substring search across skills
//   - get <id> [--json]          — revalidate and print a skill
//   - remove <id>                — delete a skill
//   - help                       — print usage
//
// The entry point is App.Run(ctx, args), which returns an error for the
// caller to report and translate into the exit code.
package cli
