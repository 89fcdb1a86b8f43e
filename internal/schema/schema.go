package schema

// scanRequestSchema describes the scan API's request document. Extra
// top-level keys are allowed: SetProperty passthrough options are part of
// the API's contract.
const scanRequestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "markets": {
      "type": "array",
      "items": {"type": "string"}
    },
    "symbols": {
      "type": "object",
      "properties": {
        "query": {"type": "object"},
        "tickers": {"type": "array", "items": {"type": "string"}},
        "symbolset": {"type": "array", "items": {"type": "string"}}
      }
    },
    "options": {"type": "object"},
    "columns": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 1
    },
    "filter": {
      "type": "array",
      "items": {"$ref": "#/$defs/filterOperation"}
    },
    "filter2": {"$ref": "#/$defs/booleanNode"},
    "sort": {
      "type": "object",
      "properties": {
        "sortBy": {"type": "string"},
        "sortOrder": {"enum": ["asc", "desc"]},
        "nullsFirst": {"type": "boolean"}
      },
      "required": ["sortBy", "sortOrder"]
    },
    "range": {
      "type": "array",
      "items": {"type": "integer", "minimum": 0},
      "minItems": 2,
      "maxItems": 2
    },
    "preset": {"type": "string"},
    "ignore_unknown_fields": {"type": "boolean"},
    "price_conversion": {"type": "object"}
  },
  "required": ["symbols", "columns"],
  "$defs": {
    "filterOperation": {
      "type": "object",
      "properties": {
        "left": {"type": "string"},
        "operation": {
          "enum": [
            "greater", "egreater", "less", "eless", "equal", "nequal",
            "in_range", "not_in_range", "match",
            "crosses", "crosses_above", "crosses_below",
            "above%", "below%", "in_range%", "not_in_range%",
            "has", "has_none_of"
          ]
        },
        "right": {}
      },
      "required": ["left", "operation"]
    },
    "booleanNode": {
      "type": "object",
      "properties": {
        "operator": {"enum": ["and", "or"]},
        "operands": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "expression": {"$ref": "#/$defs/filterOperation"},
              "operation": {"$ref": "#/$defs/booleanNode"}
            },
            "minProperties": 1,
            "maxProperties": 1
          }
        }
      },
      "required": ["operator", "operands"]
    }
  }
}`
