// Package configuration provides loading and saving facilities for bbup's
// YAML configuration files (§6.3): a server-side file (listen address,
// archive root) consumed by bbup-server, and a client-side file (default
// remote connection settings) consumed by bbup. Both follow the teacher's
// YAMLConfiguration/encoding.LoadAndUnmarshalYAML pattern, translated from
// TOML to YAML via gopkg.in/yaml.v3.
package configuration
