package mcpserver

// HikeFormatContract describes the canonical hike journal entry structure
// that LLM consumers should follow when creating hikes.
const HikeFormatContract = `# Raido Hike Entry Contract

Every hike journal entry stored in Raido MUST follow this structure.

## Fields

` + "```" + `json
{
  "name": "Doi Inthanon Summit Loop",   // REQUIRED – non-empty display name
  "location": "Chiang Mai, Thailand",   // REQUIRED – where the hike is
  "length_km": 8.4,                     // REQUIRED – trail length in km, strictly > 0
  "difficulty": "moderate",             // REQUIRED – free-form label (easy, moderate, hard, ...)
  "date": "2025-01-12",                 // OPTIONAL – calendar date, YYYY-MM-DD
  "parking": true,                      // OPTIONAL – parking available at trailhead
  "description": "...",                 // OPTIONAL – free text
  "terrain": "forest, rocky ridge",     // OPTIONAL – terrain notes
  "expected_weather": "cool, misty"     // OPTIONAL – expected conditions
}
` + "```" + `

## Rules

1. **Name and location are required.** Entries without them are rejected
   with "Name is required" / "Location is required".
2. **Length must be a positive number** of kilometers. Zero and negative
   values are rejected with "Length must be greater than zero".
3. **Difficulty is required** but free-form. Prefer lowercase single words.
4. **Dates use the ISO calendar form** ` + "`" + `YYYY-MM-DD` + "`" + ` with no time component.
   Undated entries are allowed; they sort after dated ones in listings.
5. **Observations** are attached separately via ` + "`" + `add_observation` + "`" + ` after
   the hike exists. Each carries free text, an optional comment, and a
   server-assigned timestamp.
6. **Photos** are attached via the ` + "`" + `attach_photo` + "`" + ` tool, which accepts a
   base64 data URI or an http(s) URL and returns the stored media entry.
   Supported formats: png, jpg, jpeg, gif, webp.
7. Deleting a hike removes all of its observations and media with it.

## Example workflow

1. ` + "`" + `create_hike` + "`" + ` with name, location, length_km, difficulty (and date).
2. ` + "`" + `add_observation` + "`" + ` for each trail note.
3. ` + "`" + `attach_photo` + "`" + ` for each picture.
4. ` + "`" + `get_hike` + "`" + ` to read the assembled entry back.
`
