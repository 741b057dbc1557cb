/*
Package ports defines the interfaces between the engine and its collaborators.

These interfaces decouple lanes from the steps, destinations, validators and
trackers plugged into them, and origins from the transports that drive them.

# Key Interfaces

  - Step: one unit of processing inside a lane.
  - Destination / DestinationAdapter: named external targets and how they are invoked.
  - HTTPClient: the network call behind an HTTP destination.
  - Validator: a schema-validation plugin.
  - Tracker: a bounded store of finished executions.
  - RouteRequestAdapter: the bridge between a server framework and a route.
  - Registry: the application handle lanes use to reach all of the above.
*/
package ports
