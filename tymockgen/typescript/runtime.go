package typescript

// runtimeSource is the registry module generated files import. It is
// written alongside the mocks when EmitRuntime is set.
const runtimeSource = `export interface Generic {
  ids: string[];
  value: () => unknown;
}

export type Factory = (generics?: Generic[]) => any;

export type MethodProvider = (name: string, body: () => unknown) => (...args: any[]) => any;

const factories = new Map<string, Factory>();

export const registry = {
  registerFactory(key: string, factory: Factory): void {
    factories.set(key, factory);
  },
  getFactory(key: string): Factory {
    const factory = factories.get(key);
    if (factory === undefined) {
      throw new Error("tymock: factory not found: " + key);
    }
    return factory;
  },
  has(key: string): boolean {
    return factories.has(key);
  },
  reset(): void {
    factories.clear();
  },
};

export function generic(generics: Generic[] | undefined, id: string): any {
  for (const g of generics ?? []) {
    if (g.ids.indexOf(id) >= 0) {
      return g.value();
    }
  }
  return undefined;
}

const defaultMethodProvider: MethodProvider = (_name, body) => function () {
  return body();
};

let methodProvider: MethodProvider = defaultMethodProvider;

export function setMethodProvider(provider: MethodProvider | undefined): void {
  methodProvider = provider ?? defaultMethodProvider;
}

export function method(name: string, body: () => unknown): (...args: any[]) => any {
  return methodProvider(name, body);
}
`
