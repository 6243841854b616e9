package catalog

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// BuildSchema reflects the creature config document into a JSON schema so
// designers get editor validation for the files under configs/.
func BuildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.ReflectFromType(reflect.TypeOf(Document{}))
	schema.Title = "Deadwave Creature Definition"
	schema.Description = "Designer-authored creature type consumed by the behavior runtime; one definition per file under internal/agent/catalog/configs."
	return schema
}
