// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package resolver turns a configuration and the live environment into the
flat string environment handed to a child process.

Resolution runs in three steps:

 1. DetectMode picks the discriminator value: an explicit override, the live
    environment, the schema's own default, or the first declared defaults
    bucket, in that order.
 2. MergeDefaults copies that bucket and overlays the live environment. An
    explicit override is written back to the discriminator last.
 3. Finalize validates the candidate through the configured schema and
    stringifies the result.

Validation failures are returned as Issues on the ResolvedEnv, never as
errors. Errors are reserved for a schema that fails to run.

	res, err := resolver.Resolve(ctx, cfg, &env.OSReader{}, resolver.Options{Validate: true})
	if err != nil {
		return err
	}
	if len(res.Issues) > 0 {
		fmt.Println(res.Issues)
	}
*/
package resolver
