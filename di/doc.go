// Package di is the runtime surface the generated wiring code targets.
//
// It models a BuilderStore (instance-key -> scope + builder, with parent
// traversal), an InstanceCache (scope-driven memoization with explicit
// entry states), and a Container tying the two together behind the
// resolve protocol.
//
// Design goals:
//   - Explicit identity: InstanceKey (abstract type + ordered parameter
//     types) is the only cache identity; for parameterized resolves the
//     container derives that key from the declared key plus the rendered
//     argument values.
//   - Non-owning resolution: builders receive a Resolver handle and the
//     container never retains resolved values through the builders it
//     stores.
//   - Cooperative single-threaded use: resolve calls on one container
//     must not overlap across goroutines.
package di
