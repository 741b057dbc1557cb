/*
Package domain contains the data model shared by every part of the engine.

It defines the lifecycle of a unit of work and the records it leaves behind,
free of transport or storage concerns.

# Key Entities

  - ExecutionContext: the live state of one unit of work (payload, atoms, step journal).
  - StepExecution: the record of one step, including its diagnostic journal.
  - HodrError: the single error shape that leaves the lane runner.
  - HTTPRequest / HTTPResponse: the transport-neutral view of HTTP traffic.
  - LifecycleHooks: optional callbacks fired as executions and steps progress.
*/
package domain
