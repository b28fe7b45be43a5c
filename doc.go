// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

/*
Package tripstar turns bike-share trip extracts into a star schema and loads
it into a SQL warehouse.

A run has three stages.

1. Load

   The csv package reads the trip extract and the kiosk registry into the
   fixed-shape records defined in this package (Trip and Kiosk). Inputs may be
   local files, http(s) URLs, or S3 objects (see aws/s3). Nothing is
   transformed at this stage; empty cells simply come through as empty
   strings.

2. Build

   The star package derives the four dimensions (time of day in 15 minute
   buckets, weekday/month/year date, kiosk location, and a junk dimension
   combining subscription and bike type) and aggregates trips into the
   fact_trips table. Rows which can't be parsed are counted and dropped from
   whatever depends on the broken field; they never abort a run.

3. Write

   The warehouse package replaces the contents of each of the five tables.
   Every table is written in its own transaction, so there is no rollback
   across tables, and a failed run is fixed by running it again.

The usecase/trips package wires the three stages together and cmd exposes it
as the tripstar command.
*/
package tripstar
