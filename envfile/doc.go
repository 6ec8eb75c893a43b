// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package envfile reads dotenv files into a map of variables.

Files are parsed with github.com/joho/godotenv, so quoting, comments, blank
lines and the "export" prefix behave the way dotenv users expect.

# Missing files

Existence is checked before anything else. The MissingPolicy decides what
happens when the file is absent:

	envfile.MissingError  // return an error wrapping ErrNotFound (default)
	envfile.MissingWarn   // log a warning and return an empty map
	envfile.MissingIgnore // return an empty map

# Encrypted files

Decryption is delegated:

	vars, err := envfile.Parse(ctx, ".env.prod.enc", envfile.Options{
		Decrypt: envfile.DecryptSops,
	})

DecryptSops runs "sops -d". DecryptAge decrypts with filippo.io/age using
the identities in Options.AgeIdentityFile, SOPS_AGE_KEY_FILE, or
$XDG_CONFIG_HOME/sops/age/keys.txt, in that order.
*/
package envfile
