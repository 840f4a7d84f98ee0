package env

type Args struct {
	Test    *bool
	Verbose *bool
	Light   *bool
	Pin     *string
	Broker  *string
	Topic   *string
	Listen  *string
}
