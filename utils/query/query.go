package queryHelper

import (
	"fmt"
	"reflect"
	"strings"
)

// UpdateQueryBuilder builds a positional-parameter UPDATE statement from the
// non-zero fields of data, skipping the identifier column. Used by the legacy
// raw SQL store.
func UpdateQueryBuilder(tableName string, identifier string, id int64, data interface{}) (string, []interface{}) {
	query := fmt.Sprintf("UPDATE %s SET ", tableName)
	values := []interface{}{}

	v := reflect.ValueOf(data)

	index := 1
	for i := 0; i < v.NumField(); i++ {
		name := strings.ToLower(v.Type().Field(i).Name)
		if name == identifier {
			continue
		}
		if reflect.DeepEqual(v.Field(i).Interface(), reflect.Zero(v.Field(i).Type()).Interface()) {
			continue
		}
		query += fmt.Sprintf("%s=$%d, ", name, index)
		values = append(values, v.Field(i).Interface())
		index++
	}

	query = strings.TrimSuffix(query, ", ")
	query += fmt.Sprintf(" WHERE %s=$%d;", identifier, len(values)+1)

	values = append(values, id)

	return query, values
}
