// internal/common/validation/cards.go
package validation

// ResultCardsSchema describes the result list returned by the search endpoint.
const ResultCardsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["name", "description", "source_info", "action_boxes", "suggestions", "actions"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "description": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string"}
      },
      "source_info": {"type": "string"},
      "action_boxes": {
        "type": "array",
        "maxItems": 3,
        "items": {
          "type": "object",
          "required": ["type", "title"],
          "properties": {
            "type": {"enum": ["info", "variations", "opinions", "manuals", "placeholder"]},
            "title": {"type": "string"},
            "message": {"type": "string"},
            "variations": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["name", "query"],
                "properties": {"name": {"type": "string"}, "query": {"type": "string"}}
              }
            },
            "actions": {"type": "array", "items": {"$ref": "#/definitions/action"}},
            "opinions": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["text"],
                "properties": {"text": {"type": "string"}, "rating": {"type": "string"}}
              }
            },
            "manuals": {
              "type": "array",
              "items": {
                "type": "object",
                "properties": {
                  "title": {"type": "string"},
                  "type": {"type": "string"},
                  "url": {"type": "string"}
                }
              }
            }
          }
        }
      },
      "suggestions": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["text", "category"],
          "properties": {"text": {"type": "string"}, "category": {"type": "string"}}
        }
      },
      "actions": {
        "type": "array",
        "minItems": 1,
        "items": {"$ref": "#/definitions/action"}
      }
    }
  },
  "definitions": {
    "action": {
      "type": "object",
      "required": ["type", "label"],
      "properties": {
        "type": {"enum": ["chat", "search", "view"]},
        "label": {"type": "string"},
        "query": {"type": "string"},
        "url": {"type": "string"}
      }
    }
  }
}`
