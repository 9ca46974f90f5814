// Package app contains the application composition root. It defines the
// App struct, which wires configuration, logging, chain clients, the
// audit log, and checklist persistence into runners, decoupled from any
// specific entrypoint like the CLI.
package app
