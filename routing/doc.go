// Copyright 2025 Patter AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package routing assigns qualified leads to vendors.
//
// Each vendor carries a list of criteria matched against the lead payload.
// A vendor's score is the number of criteria it matches; the highest score
// wins and ties keep the vendor created first. A vendor with no criteria
// always qualifies at score zero, making it a natural catch-all.
package routing
