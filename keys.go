package changekit

import "fmt"

// schemaPrefix is the prefix entity type definitions are persisted under
var schemaPrefix = []byte("changekit.schema.")

// recordKey returns the primary index key of a record
func recordKey(collection, id string) []byte {
	return []byte(fmt.Sprintf("changekit.record.%s.%s", collection, id))
}

// recordPrefix returns the primary index prefix of a collection
func recordPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("changekit.record.%s.", collection))
}

// schemaKey returns the key a collection's entity type definition is
// persisted at
func schemaKey(collection string) []byte {
	return []byte(fmt.Sprintf("changekit.schema.%s", collection))
}

// lockKey returns the lock key guarding a collection's configuration
func lockKey(collection string) []byte {
	return []byte(fmt.Sprintf("changekit.lock.%s", collection))
}
