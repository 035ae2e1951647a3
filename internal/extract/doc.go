// Package extract splits raw, mixed-format text into typed fragments.
//
// Extraction is a fixed sequence of passes over a shared Buffer. Each pass
// matches candidate spans and consumes them into fragments; consumed spans
// are claimed and blanked in the working copy so that later, looser passes
// cannot misread them:
//
//  1. JSON: fenced ```json blocks and balanced {...} / [...] spans
//  2. Front matter: a ---delimited YAML block at the top of the document
//  3. HTML tables: <table> spans, parsed with goquery
//  4. Delimited blocks: consistent comma/tab/semicolon/pipe line groups
//  5. Key/value block: the first run of "key: value" lines
//  6. Raw text: a bounded prefix, only when nothing else matched
//
// Failures to parse one candidate are skipped; extraction never fails on
// malformed input.
package extract
