package schema

const OrderEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "orders",
	"name": "order_event",
	"fields" : [
		{"name": "order_id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "total", "type": "double"},
		{"name": "occurred_at", "type": "long"}
	]
}`

type OrderEventV1 struct {
	OrderID    string  `avro:"order_id"`
	UserID     string  `avro:"user_id"`
	Status     string  `avro:"status"`
	Total      float64 `avro:"total"`
	OccurredAt int64   `avro:"occurred_at"`
}
