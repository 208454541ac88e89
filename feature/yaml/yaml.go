/*
Package yaml provides methods to parse feature.Schema specifications,
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadSchema takes a slice of bytes with a feature specification in YML and
returns the schema parsed from it or an error.
The YML is expected to be an object containing a features property. The value
for this should be an object with a property for each feature with its name
and either a string value naming its kind ('numeric', 'categorical',
'boolean' or their initials) or a list of valid values for categorical
features. Features keep the order in which they are declared.
*/
func ReadSchema(md []byte) (*feature.Schema, error) {
	metadata := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yml features")
	}
	if metadata.Features == nil {
		return nil, errors.New("metadata file has no feature information")
	}
	features := []feature.Feature{}
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case string:
			k, err := feature.ParseKind(values)
			if err != nil {
				return nil, errors.Wrapf(err, "declaring feature %s", fn)
			}
			f, err := feature.New(fn, k)
			if err != nil {
				return nil, err
			}
			features = append(features, f)
		case []interface{}:
			stringVs := []string{}
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewCategoricalFeature(fn, stringVs))
		default:
			return nil, errors.Wrapf(feature.ErrInvalidSchema, "invalid declaration of type %T for feature %s", item.Value, fn)
		}
	}
	return feature.NewSchema(features...)
}

/*
ReadSchemaFromFile takes a filepath string, reads its contents and uses
ReadSchema to parse it and return the parsed schema or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadSchemaFromFile(filepath string) (*feature.Schema, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading features yml file %s", filepath)
	}
	schema, err := ReadSchema(md)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing features yml file %s", filepath)
	}
	return schema, nil
}
