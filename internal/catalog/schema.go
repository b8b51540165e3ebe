package catalog

// documentSchema is the JSON Schema of a catalog document. Challenge skill
// lists are not length-checked here: NewChallenge owns that rule.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "competences", "tubes", "skills", "challenges"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "competences": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "area_code": {"type": "string"}
        }
      }
    },
    "tubes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "competence_id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "competence_id": {"type": "string", "minLength": 1}
        }
      }
    },
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "difficulty", "tube_id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "difficulty": {"type": "number"},
          "tube_id": {"type": "string", "minLength": 1}
        }
      }
    },
    "challenges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "status", "skill_ids", "difficulty"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "status": {"type": "string"},
          "skill_ids": {"type": "array", "items": {"type": "string"}},
          "difficulty": {"type": "number"},
          "discriminant": {"type": "number"},
          "timer": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`
