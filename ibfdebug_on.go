/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build ibfdebug

package ibf

// ibfDebug gates the generation-counter misuse check described in §7:
// reading an Ibf consumed by a destructive Subtract or by Decode returns
// ErrDestroyed in a build tagged `ibfdebug`, and is undefined
// (unchecked) otherwise — opt-in instrumentation, zero-cost when off.
const ibfDebug = true
