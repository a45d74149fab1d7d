package registry

// Prop contracts, one JSON Schema document per component. They describe the
// props the rule-based parser and the AI collaborator emit; extra keys such
// as "responsive" are always allowed.

const cardContract = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "description": {"type": "string"},
    "value": {"type": ["string", "number"]},
    "trend": {"type": "string"},
    "icon": {"type": "string"},
    "image": {"type": "string"},
    "action": {"type": "string"}
  }
}`

const tableContract = `{
  "type": "object",
  "required": ["columns", "data"],
  "properties": {
    "title": {"type": "string"},
    "columns": {
      "type": "array",
      "items": {
        "oneOf": [
          {"type": "string"},
          {
            "type": "object",
            "required": ["key", "label"],
            "properties": {
              "key": {"type": "string"},
              "label": {"type": "string"},
              "sortable": {"type": "boolean"}
            }
          }
        ]
      }
    },
    "data": {"type": "array", "items": {"type": "object"}},
    "searchable": {"type": "boolean"},
    "sortable": {"type": "boolean"}
  }
}`

const chartContract = `{
  "type": "object",
  "required": ["data"],
  "properties": {
    "title": {"type": "string"},
    "chartType": {"enum": ["line", "bar", "area", "pie"]},
    "type": {"enum": ["line", "bar", "area", "pie"]},
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "value": {"type": "number"},
          "value2": {"type": "number"}
        }
      }
    }
  }
}`

const formContract = `{
  "type": "object",
  "required": ["fields"],
  "properties": {
    "title": {"type": "string"},
    "submitText": {"type": "string"},
    "submitLabel": {"type": "string"},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "label", "type"],
        "properties": {
          "name": {"type": "string"},
          "label": {"type": "string"},
          "type": {"type": "string"},
          "placeholder": {"type": "string"},
          "required": {"type": "boolean"},
          "rows": {"type": "integer", "minimum": 1},
          "options": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

const headerContract = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string"},
    "subtitle": {"type": "string"}
  }
}`

const mapContract = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "center": {
      "type": "object",
      "required": ["lat", "lng"],
      "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
    },
    "zoom": {"type": "number"},
    "markers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["lat", "lng"],
        "properties": {
          "lat": {"type": "number"},
          "lng": {"type": "number"},
          "label": {"type": "string"}
        }
      }
    }
  }
}`

const buttonContract = `{
  "type": "object",
  "required": ["label"],
  "properties": {
    "label": {"type": "string"},
    "variant": {"enum": ["primary", "secondary", "outline"]},
    "size": {"enum": ["sm", "md", "lg"]},
    "icon": {"type": "string"}
  }
}`

const sidebarContract = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["label"],
        "properties": {
          "label": {"type": "string"},
          "icon": {"type": "string"},
          "active": {"type": "boolean"}
        }
      }
    }
  }
}`

const glassCardContract = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "content": {"type": "string"},
    "className": {"type": "string"}
  }
}`

const chatContract = `{
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "assistantName": {"type": "string"},
    "accentColor": {"type": "string"},
    "initialMessages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": {"enum": ["user", "assistant"]},
          "content": {"type": "string"}
        }
      }
    }
  }
}`

const graphContract = `{
  "type": "object",
  "required": ["data", "type"],
  "properties": {
    "title": {"type": "string"},
    "color": {"type": "string"},
    "type": {"enum": ["line", "bar", "pie"]},
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "value"],
        "properties": {"name": {"type": "string"}, "value": {"type": "number"}}
      }
    }
  }
}`
